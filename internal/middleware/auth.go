package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Strob0t/schoolforge/internal/domain/user"
)

type sessionCtxKey struct{}

// SessionValidator turns a bearer token into a session.
type SessionValidator interface {
	ValidateSession(token string) (*user.Session, error)
}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":     true,
	"/auth/login": true,
}

// Session returns middleware that requires a valid "Authorization: Bearer"
// session token on every non-public path.
func Session(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			s, err := v.ValidateSession(strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *user.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext returns the authenticated session, or nil.
func SessionFromContext(ctx context.Context) *user.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*user.Session)
	return s
}
