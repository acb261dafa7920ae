package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "schoolforge"

// Metrics holds all SchoolForge metric instruments.
type Metrics struct {
	SchoolsProvisioned metric.Int64Counter
	AccountsCreated    metric.Int64Counter
	LoginsFailed       metric.Int64Counter
	SlugCollisions     metric.Int64Counter
	ProvisionDuration  metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SchoolsProvisioned, err = meter.Int64Counter("schoolforge.schools.provisioned",
		metric.WithDescription("Number of schools provisioned"))
	if err != nil {
		return nil, err
	}

	m.AccountsCreated, err = meter.Int64Counter("schoolforge.accounts.created",
		metric.WithDescription("Number of accounts created, by role"))
	if err != nil {
		return nil, err
	}

	m.LoginsFailed, err = meter.Int64Counter("schoolforge.logins.failed",
		metric.WithDescription("Number of rejected login attempts"))
	if err != nil {
		return nil, err
	}

	m.SlugCollisions, err = meter.Int64Counter("schoolforge.slug.collisions",
		metric.WithDescription("Number of school slug collisions retried"))
	if err != nil {
		return nil, err
	}

	m.ProvisionDuration, err = meter.Float64Histogram("schoolforge.provision.duration_seconds",
		metric.WithDescription("School provisioning duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordAccountCreated increments the account counter for role. Safe on a nil receiver.
func (m *Metrics) RecordAccountCreated(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.AccountsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role)))
}

// RecordLoginFailed increments the failed login counter. Safe on a nil receiver.
func (m *Metrics) RecordLoginFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.LoginsFailed.Add(ctx, 1)
}

// RecordProvisioned records one provisioned school and its duration. Safe on a nil receiver.
func (m *Metrics) RecordProvisioned(ctx context.Context, plan string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("plan", plan))
	m.SchoolsProvisioned.Add(ctx, 1, attrs)
	m.ProvisionDuration.Record(ctx, seconds, attrs)
}

// RecordSlugCollision increments the slug collision counter. Safe on a nil receiver.
func (m *Metrics) RecordSlugCollision(ctx context.Context) {
	if m == nil {
		return
	}
	m.SlugCollisions.Add(ctx, 1)
}
