package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Strob0t/schoolforge/internal/domain/tenant"
)

// schoolColumns selects a school joined with its plan; use with scanSchool.
const schoolColumns = `
	sc.id, sc.name, sc.slug, sc.type, sc.country, sc.email, sc.phone, sc.address, sc.principal_name,
	sc.plan_id, sc.status, sc.trial_ends_at, sc.setup_complete, sc.created_at, sc.updated_at,
	p.id, p.name, p.student_limit, p.certificate_printing_allowed, p.custom_domain_enabled, p.price, p.features`

func (s *Store) CreateSchool(ctx context.Context, t *tenant.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	stampNow(&t.CreatedAt)
	t.UpdatedAt = t.CreatedAt

	_, err := s.db.Exec(ctx, `
		INSERT INTO schools (id, name, slug, type, country, email, phone, address, principal_name,
		                     plan_id, status, trial_ends_at, setup_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID, t.Name, t.Slug, t.Type, t.Country, t.Email, t.Phone, t.Address, t.PrincipalName,
		t.PlanID, t.Status, t.TrialEndsAt, t.SetupComplete, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if c, ok := uniqueConstraint(err); ok && c == constraintSchoolSlug {
			return fmt.Errorf("create school %s: %w", t.Slug, tenant.ErrSlugTaken)
		}
		return conflictWrap(err, "create school %s", t.Slug)
	}
	return nil
}

func (s *Store) GetSchool(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+schoolColumns+`
		 FROM schools sc JOIN plans p ON p.id = sc.plan_id
		 WHERE sc.id = $1`, id)

	t, err := scanSchool(row)
	if err != nil {
		return nil, notFoundWrap(err, "get school %s", id)
	}
	return &t, nil
}

func (s *Store) GetSchoolBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+schoolColumns+`
		 FROM schools sc JOIN plans p ON p.id = sc.plan_id
		 WHERE sc.slug = $1`, slug)

	t, err := scanSchool(row)
	if err != nil {
		return nil, notFoundWrap(err, "get school by slug %s", slug)
	}
	return &t, nil
}

// ListSchoolSummaries returns every school with its plan and record counts,
// newest first.
func (s *Store) ListSchoolSummaries(ctx context.Context) ([]tenant.Summary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+schoolColumns+`,
		        (SELECT COUNT(*) FROM users u WHERE u.school_id = sc.id),
		        (SELECT COUNT(*) FROM students st WHERE st.school_id = sc.id),
		        (SELECT COUNT(*) FROM teachers te WHERE te.school_id = sc.id)
		 FROM schools sc JOIN plans p ON p.id = sc.plan_id
		 ORDER BY sc.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	var out []tenant.Summary
	for rows.Next() {
		var sum tenant.Summary
		var plan tenant.Plan
		var featuresJSON []byte
		dest := append(schoolDest(&sum.Tenant, &plan, &featuresJSON),
			&sum.Counts.Users, &sum.Counts.Students, &sum.Counts.Teachers)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan school summary: %w", err)
		}
		if err := attachPlan(&sum.Tenant, plan, featuresJSON); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return orEmpty(out), nil
}

// UpdateSchoolProfile stores the profile step fields and marks the school's
// setup as complete.
func (s *Store) UpdateSchoolProfile(ctx context.Context, id string, req tenant.ProfileRequest) (*tenant.Tenant, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE schools
		SET address = $2, phone = $3, principal_name = $4, setup_complete = TRUE, updated_at = now()
		WHERE id = $1`,
		id, req.Address, req.Phone, req.PrincipalName)
	if err := execExpectOne(tag, err, "update school profile %s", id); err != nil {
		return nil, err
	}
	return s.GetSchool(ctx, id)
}

func schoolDest(t *tenant.Tenant, p *tenant.Plan, featuresJSON *[]byte) []any {
	return []any{
		&t.ID, &t.Name, &t.Slug, &t.Type, &t.Country, &t.Email, &t.Phone, &t.Address, &t.PrincipalName,
		&t.PlanID, &t.Status, &t.TrialEndsAt, &t.SetupComplete, &t.CreatedAt, &t.UpdatedAt,
		&p.ID, &p.Name, &p.StudentLimit, &p.CertificatePrintingAllowed, &p.CustomDomainEnabled, &p.Price, featuresJSON,
	}
}

func scanSchool(row scannable) (tenant.Tenant, error) {
	var t tenant.Tenant
	var plan tenant.Plan
	var featuresJSON []byte
	if err := row.Scan(schoolDest(&t, &plan, &featuresJSON)...); err != nil {
		return tenant.Tenant{}, err
	}
	if err := attachPlan(&t, plan, featuresJSON); err != nil {
		return tenant.Tenant{}, err
	}
	return t, nil
}

func attachPlan(t *tenant.Tenant, plan tenant.Plan, featuresJSON []byte) error {
	features, err := decodeFeatures(featuresJSON)
	if err != nil {
		return err
	}
	plan.Features = features
	t.Plan = &plan
	return nil
}
