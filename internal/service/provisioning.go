package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	sfotel "github.com/Strob0t/schoolforge/internal/adapter/otel"
	"github.com/Strob0t/schoolforge/internal/config"
	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/tenant"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/password"
	"github.com/Strob0t/schoolforge/internal/port/database"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
)

const (
	slugSuffixLen     = 5
	slugSuffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ProvisioningService creates schools with their plan and first admin.
type ProvisioningService struct {
	store    database.Store
	identity *IdentityFactory
	hasher   *password.Hasher
	queue    messagequeue.Queue
	metrics  *sfotel.Metrics
	cfg      config.Provisioning

	now        func() time.Time
	slugSuffix func() string
}

// NewProvisioningService creates a ProvisioningService. queue and metrics may be nil.
func NewProvisioningService(store database.Store, identity *IdentityFactory, hasher *password.Hasher,
	queue messagequeue.Queue, metrics *sfotel.Metrics, cfg config.Provisioning,
) *ProvisioningService {
	return &ProvisioningService{
		store:      store,
		identity:   identity,
		hasher:     hasher,
		queue:      queue,
		metrics:    metrics,
		cfg:        cfg,
		now:        time.Now,
		slugSuffix: randomSlugSuffix,
	}
}

// Provision creates a school and its SCHOOL_ADMIN account in one transaction
// and returns the admin's one-time temporary password.
func (s *ProvisioningService) Provision(ctx context.Context, req tenant.ProvisionRequest) (*tenant.ProvisionResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.AdminEmail = user.NormalizeEmail(req.AdminEmail)
	req.Email = user.NormalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	key, ok := tenant.ParsePlanKey(req.PlanKey)
	if !ok {
		return nil, domain.NewValidationError("planId")
	}
	base := tenant.Slugify(req.Name)
	if base == "" {
		return nil, domain.NewValidationError("name")
	}

	ctx, span := sfotel.StartProvisionSpan(ctx, req.Name, key.PlanName())
	start := time.Now()
	res, err := s.provision(ctx, req, key, base)
	sfotel.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordProvisioned(ctx, key.PlanName(), time.Since(start).Seconds())
	school := res.School
	publishEvent(ctx, s.queue, messagequeue.SubjectSchoolProvisioned, messagequeue.SchoolProvisionedPayload{
		SchoolID:    school.ID,
		Slug:        school.Slug,
		Name:        school.Name,
		Plan:        key.PlanName(),
		Status:      string(school.Status),
		TrialEndsAt: school.TrialEndsAt,
		AdminEmail:  res.Credentials.Email,
	})
	slog.InfoContext(ctx, "school provisioned",
		"school_id", school.ID, "slug", school.Slug, "plan", key.PlanName(), "admin_email", res.Credentials.Email)
	return res, nil
}

func (s *ProvisioningService) provision(ctx context.Context, req tenant.ProvisionRequest, key tenant.PlanKey, base string) (*tenant.ProvisionResult, error) {
	plan, err := s.resolvePlan(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve plan: %w", err)
	}

	temp := password.GenerateRandom(s.cfg.TempPasswordLength)
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		return nil, fmt.Errorf("hash temporary password: %w", err)
	}

	// A unique violation aborts the Postgres transaction, so each slug
	// candidate gets a transaction of its own.
	var (
		school *tenant.Tenant
		admin  *user.User
	)
	for attempt := range max(s.cfg.SlugAttempts, 1) {
		slug := base
		if attempt > 0 {
			slug = base + "-" + s.slugSuffix()
		}
		school, admin, err = s.createSchool(ctx, req, plan, key, slug, hash)
		if !errors.Is(err, tenant.ErrSlugTaken) {
			break
		}
		s.metrics.RecordSlugCollision(ctx)
		slog.InfoContext(ctx, "school slug taken, retrying", "slug", slug, "attempt", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("provision school: %w", err)
	}

	return &tenant.ProvisionResult{
		School:      *school,
		Credentials: tenant.Credentials{Email: admin.Email, Password: temp},
	}, nil
}

// createSchool inserts the school and its admin account atomically.
func (s *ProvisioningService) createSchool(ctx context.Context, req tenant.ProvisionRequest, plan *tenant.Plan,
	key tenant.PlanKey, slug, passwordHash string,
) (*tenant.Tenant, *user.User, error) {
	now := s.now().UTC()
	school := &tenant.Tenant{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Slug:      slug,
		Type:      req.Type,
		Country:   req.Country,
		Email:     req.Email,
		Phone:     req.Phone,
		PlanID:    plan.ID,
		Plan:      plan,
		Status:    tenant.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if key.IsTrial() {
		ends := now.AddDate(0, 0, s.cfg.TrialDays)
		school.Status = tenant.StatusTrial
		school.TrialEndsAt = &ends
	}

	var admin *user.User
	err := s.store.InTx(ctx, func(tx database.Store) error {
		if err := tx.CreateSchool(ctx, school); err != nil {
			return err
		}
		var err error
		admin, err = s.identity.CreateAccount(ctx, tx, user.CreateRequest{
			Email:    req.AdminEmail,
			Password: passwordHash,
			Name:     req.AdminName,
			Role:     user.RoleSchoolAdmin,
			SchoolID: &school.ID,
		}, SkipHash())
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return school, admin, nil
}

// resolvePlan looks the plan up by name and creates it from the catalog
// defaults when it does not exist yet.
func (s *ProvisioningService) resolvePlan(ctx context.Context, key tenant.PlanKey) (*tenant.Plan, error) {
	p, err := s.store.GetPlanByName(ctx, key.PlanName())
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	def := key.DefaultPlan()
	def.ID = uuid.NewString()
	if err := s.store.CreatePlan(ctx, &def); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Created concurrently.
			return s.store.GetPlanByName(ctx, key.PlanName())
		}
		return nil, err
	}
	slog.InfoContext(ctx, "plan created from catalog defaults", "plan", def.Name)
	return &def, nil
}

// List returns every school with its plan and record counts, newest first.
func (s *ProvisioningService) List(ctx context.Context) ([]tenant.Summary, error) {
	return s.store.ListSchoolSummaries(ctx)
}

func randomSlugSuffix() string {
	b := make([]byte, slugSuffixLen)
	for i := range b {
		b[i] = slugSuffixCharset[rand.IntN(len(slugSuffixCharset))] //nolint:gosec // slug disambiguation, not a secret
	}
	return string(b)
}
