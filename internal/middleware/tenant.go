package middleware

import (
	"net/http"

	"github.com/Strob0t/schoolforge/internal/logger"
)

// TenantLog tags the request context with the session's school so every log
// record written while serving the request carries school_id.
// It must run after Session.
func TenantLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := SessionFromContext(r.Context()); s.HasSchool() {
			r = r.WithContext(logger.WithSchoolID(r.Context(), s.SchoolID))
		}
		next.ServeHTTP(w, r)
	})
}
