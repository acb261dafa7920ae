package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "schoolforge"

// StartProvisionSpan starts a span for provisioning a new school.
func StartProvisionSpan(ctx context.Context, schoolName, plan string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "provision",
		trace.WithAttributes(
			attribute.String("school.name", schoolName),
			attribute.String("school.plan", plan),
		),
	)
}

// StartSeedSpan starts a span for creating an account of the given role.
func StartSeedSpan(ctx context.Context, role string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "seed",
		trace.WithAttributes(attribute.String("account.role", role)),
	)
}

// StartLoginSpan starts a span for a credential check.
func StartLoginSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "login")
}

// StartSetupSpan starts a span for a school setup step.
func StartSetupSpan(ctx context.Context, step, schoolID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "setup."+step,
		trace.WithAttributes(attribute.String("school.id", schoolID)),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
