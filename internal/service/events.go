package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
)

// publishEvent marshals payload and publishes it on subject. Events are
// emitted after commit, so failures are logged and never returned.
func publishEvent(ctx context.Context, q messagequeue.Queue, subject string, payload any) {
	if q == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("event marshal failed", "subject", subject, "error", err)
		return
	}
	if err := q.Publish(ctx, subject, data); err != nil {
		slog.Warn("event publish failed", "subject", subject, "error", err)
	}
}

func accountCreatedPayload(id, email, role string, schoolID *string) messagequeue.AccountCreatedPayload {
	p := messagequeue.AccountCreatedPayload{UserID: id, Email: email, Role: role}
	if schoolID != nil {
		p.SchoolID = *schoolID
	}
	return p
}
