package http

import (
	"net/http"

	"github.com/Strob0t/schoolforge/internal/domain/tenant"
)

type provisionResponse struct {
	Success     bool               `json:"success"`
	School      tenant.Tenant      `json:"school"`
	Credentials tenant.Credentials `json:"credentials"`
}

// ProvisionSchool handles POST /provisioning/schools
func (h *Handlers) ProvisionSchool(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.ProvisionRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}

	res, err := h.Provisioning.Provision(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "Failed to create school")
		return
	}

	writeJSON(w, http.StatusOK, provisionResponse{
		Success:     true,
		School:      res.School,
		Credentials: res.Credentials,
	})
}

// ListSchools handles GET /provisioning/schools
func (h *Handlers) ListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.Provisioning.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Failed to fetch schools")
		return
	}
	if schools == nil {
		schools = []tenant.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string][]tenant.Summary{"schools": schools})
}
