package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Strob0t/schoolforge/internal/domain/tenant"
)

func (s *Store) GetPlanByName(ctx context.Context, name string) (*tenant.Plan, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, student_limit, certificate_printing_allowed, custom_domain_enabled, price, features
		FROM plans WHERE name = $1`, name)

	p, err := scanPlan(row)
	if err != nil {
		return nil, notFoundWrap(err, "get plan %s", name)
	}
	return &p, nil
}

func (s *Store) CreatePlan(ctx context.Context, p *tenant.Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	features := p.Features
	if features == nil {
		features = map[string]any{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("marshal plan features: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO plans (id, name, student_limit, certificate_printing_allowed, custom_domain_enabled, price, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.StudentLimit, p.CertificatePrintingAllowed, p.CustomDomainEnabled, p.Price, featuresJSON,
	)
	if err != nil {
		return conflictWrap(err, "create plan %s", p.Name)
	}
	return nil
}

func scanPlan(row scannable) (tenant.Plan, error) {
	var p tenant.Plan
	var featuresJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.StudentLimit, &p.CertificatePrintingAllowed,
		&p.CustomDomainEnabled, &p.Price, &featuresJSON); err != nil {
		return tenant.Plan{}, err
	}
	features, err := decodeFeatures(featuresJSON)
	if err != nil {
		return tenant.Plan{}, err
	}
	p.Features = features
	return p, nil
}

// decodeFeatures unmarshals a plan's jsonb features; empty input yields an empty map.
func decodeFeatures(data []byte) (map[string]any, error) {
	features := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &features); err != nil {
			return nil, fmt.Errorf("unmarshal plan features: %w", err)
		}
	}
	return features, nil
}
