package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Strob0t/schoolforge/internal/domain/academic"
	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/service"
)

// Authenticator checks credentials and issues session tokens.
type Authenticator interface {
	Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error)
}

// Provisioner creates and lists schools.
type Provisioner interface {
	Provision(ctx context.Context, req tenant.ProvisionRequest) (*tenant.ProvisionResult, error)
	List(ctx context.Context) ([]tenant.Summary, error)
}

// SetupWizard runs the per-school setup steps.
type SetupWizard interface {
	RecordAcademicYear(ctx context.Context, schoolID string, req academic.CreateRequest) (*academic.Year, error)
	CompleteSchoolProfile(ctx context.Context, schoolID string, req tenant.ProfileRequest) (*tenant.Tenant, error)
}

// AccountSeeder onboards users into a school.
type AccountSeeder interface {
	SeedStudent(ctx context.Context, in profile.StudentInput) (*service.Result, error)
	SeedTeacher(ctx context.Context, in profile.TeacherInput) (*service.Result, error)
	SeedStaff(ctx context.Context, in profile.StaffInput) (*service.Result, error)
	SeedParent(ctx context.Context, in profile.ParentInput) (*service.Result, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handlers of the SchoolForge API.
type Handlers struct {
	Auth         Authenticator
	Provisioning Provisioner
	Setup        SetupWizard
	Accounts     AccountSeeder
	DB           Pinger
	BodyLimit    int64 // max request body in bytes
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Ping(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "postgres": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "postgres": "ok"})
}
