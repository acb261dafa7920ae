package http

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Strob0t/schoolforge/internal/config"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/middleware"
)

const contentTypeJSON = "application/json"

// MountRoutes registers all API routes on the given chi router. Every route
// except /health and /auth/login requires a session.
func MountRoutes(r chi.Router, h *Handlers, sessions middleware.SessionValidator, limiter *middleware.RateLimiter, authCfg config.Auth) {
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessions))
		r.Use(middleware.TenantLog)

		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Handler, chimw.AllowContentType(contentTypeJSON)).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)
		})

		r.Route("/setup", func(r chi.Router) {
			r.Use(middleware.RequireTenant)
			r.Use(chimw.AllowContentType(contentTypeJSON))
			r.Post("/academic-year", h.RecordAcademicYear)
			r.Post("/school-profile", h.CompleteSchoolProfile)
		})

		r.Route("/provisioning", func(r chi.Router) {
			if authCfg.ProvisioningRequiresSuperAdmin {
				r.Use(middleware.RequireRole(user.RoleSuperAdmin))
			}
			r.Get("/schools", h.ListSchools)
			r.With(limiter.Handler, chimw.AllowContentType(contentTypeJSON)).Post("/schools", h.ProvisionSchool)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.RequireTenant)
			r.Use(middleware.RequireRole(user.RoleSchoolAdmin))
			r.With(chimw.AllowContentType(contentTypeJSON)).Post("/{role}", h.CreateAccount)
		})
	})
}
