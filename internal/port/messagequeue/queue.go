// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Queue is the port interface for publishing domain events.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Drain flushes pending publishes and closes the connection.
	Drain() error

	// Close shuts down the queue connection immediately.
	Close() error

	// IsConnected reports whether the queue is currently connected.
	IsConnected() bool
}

// Subject constants for NATS subjects used by SchoolForge.
const (
	SubjectSchoolProvisioned = "schools.provisioned"
	SubjectAccountCreated    = "accounts.created"
	SubjectSetupCompleted    = "schools.setup_completed"
)

// Subjects lists the subject wildcards captured by the event stream.
var Subjects = []string{"schools.>", "accounts.>"}

// Noop is a Queue that discards every message. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, []byte) error { return nil }
func (Noop) Drain() error                                   { return nil }
func (Noop) Close() error                                   { return nil }
func (Noop) IsConnected() bool                              { return false }
