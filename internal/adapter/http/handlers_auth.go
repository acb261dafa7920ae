package http

import (
	"net/http"

	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/middleware"
)

// Login handles POST /auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout. Sessions are stateless tokens, so the
// client discarding its token ends the session.
func (h *Handlers) Logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session handles GET /auth/session
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	s := middleware.SessionFromContext(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*user.Session{"session": s})
}
