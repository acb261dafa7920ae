package logger

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}
type schoolIDKey struct{}

// WithRequestID returns a new context with the given request ID stored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithSchoolID returns a new context tagged with the tenant the request acts on.
func WithSchoolID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, schoolIDKey{}, id)
}

// SchoolID extracts the tenant ID from the context, or "".
func SchoolID(ctx context.Context) string {
	id, _ := ctx.Value(schoolIDKey{}).(string)
	return id
}

// contextHandler copies request_id and school_id from the context onto each record.
type contextHandler struct {
	inner slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	if id := RequestID(ctx); id != "" {
		rec.AddAttrs(slog.String("request_id", id))
	}
	if id := SchoolID(ctx); id != "" {
		rec.AddAttrs(slog.String("school_id", id))
	}
	return h.inner.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name)}
}
