package http

import (
	"net/http"

	"github.com/Strob0t/schoolforge/internal/domain/academic"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
)

type academicYearResponse struct {
	Success      bool           `json:"success"`
	AcademicYear *academic.Year `json:"academicYear"`
}

type schoolProfileResponse struct {
	Success bool           `json:"success"`
	School  *tenant.Tenant `json:"school"`
}

// RecordAcademicYear handles POST /setup/academic-year
func (h *Handlers) RecordAcademicYear(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[academic.CreateRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}

	y, err := h.Setup.RecordAcademicYear(r.Context(), schoolID(r), req)
	if err != nil {
		writeDomainError(w, r, err, "Failed to create academic year")
		return
	}

	writeJSON(w, http.StatusOK, academicYearResponse{Success: true, AcademicYear: y})
}

// CompleteSchoolProfile handles POST /setup/school-profile
func (h *Handlers) CompleteSchoolProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.ProfileRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}

	school, err := h.Setup.CompleteSchoolProfile(r.Context(), schoolID(r), req)
	if err != nil {
		writeDomainError(w, r, err, "Failed to update school profile")
		return
	}

	writeJSON(w, http.StatusOK, schoolProfileResponse{Success: true, School: school})
}
