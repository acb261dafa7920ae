// Package database defines the database store port (interface).
package database

import (
	"context"
	"time"

	"github.com/Strob0t/schoolforge/internal/domain/academic"
	"github.com/Strob0t/schoolforge/internal/domain/profile"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/domain/user"
)

// Store is the port interface for database operations.
//
// Create methods fail with *domain.DuplicateIdentityError for a taken email,
// tenant.ErrSlugTaken for a taken school slug, and domain.ErrConflict for
// any other uniqueness violation. Lookups fail with domain.ErrNotFound.
type Store interface {
	// InTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling InTx on a transaction-bound Store opens a savepoint.
	InTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error

	// Profiles
	CreateStudent(ctx context.Context, p *profile.Student) error
	CreateTeacher(ctx context.Context, p *profile.Teacher) error
	CreateStaff(ctx context.Context, p *profile.Staff) error
	CreateParent(ctx context.Context, p *profile.Parent) error

	// Plans
	GetPlanByName(ctx context.Context, name string) (*tenant.Plan, error)
	CreatePlan(ctx context.Context, p *tenant.Plan) error

	// Schools
	CreateSchool(ctx context.Context, t *tenant.Tenant) error
	GetSchool(ctx context.Context, id string) (*tenant.Tenant, error)
	GetSchoolBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
	ListSchoolSummaries(ctx context.Context) ([]tenant.Summary, error)
	UpdateSchoolProfile(ctx context.Context, id string, req tenant.ProfileRequest) (*tenant.Tenant, error)

	// Academic years
	ClearCurrentAcademicYears(ctx context.Context, schoolID string) error
	CreateAcademicYear(ctx context.Context, y *academic.Year) error
	MarkCurrentYearsSetupComplete(ctx context.Context, schoolID string) (int64, error)
}
