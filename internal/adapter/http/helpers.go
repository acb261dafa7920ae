package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/middleware"
	"github.com/Strob0t/schoolforge/internal/service"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request, bodyLimit int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "Invalid request body")
		}
		return v, false
	}
	return v, true
}

// schoolID returns the tenant bound to the request's session, or "".
func schoolID(r *http.Request) string {
	if s := middleware.SessionFromContext(r.Context()); s != nil {
		return s.SchoolID
	}
	return ""
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps a service error onto a status code and a fixed
// message. Causes of 5xx answers are logged, never returned.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	var (
		verr *domain.ValidationError
		dup  *domain.DuplicateIdentityError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing required fields", Fields: verr.Fields})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &dup):
		writeError(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, tenant.ErrSlugTaken):
		writeError(w, http.StatusConflict, "School slug already taken")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "Resource already exists")
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, fallbackMsg)
	}
}
