// Package nats implements the message queue port using NATS JetStream.
package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Strob0t/schoolforge/internal/config"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
	"github.com/Strob0t/schoolforge/internal/resilience"
)

// publisher is the part of jetstream.JetStream the queue publishes through.
type publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Queue implements messagequeue.Queue using NATS JetStream.
type Queue struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	pub     publisher
	breaker *resilience.Breaker
	timeout time.Duration
}

// Connect establishes a connection to NATS and ensures the JetStream stream exists.
func Connect(ctx context.Context, cfg config.NATS) (*Queue, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("schoolforge"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: messagequeue.Subjects,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	q := newQueue(js, cfg)
	q.nc = nc
	q.js = js
	return q, nil
}

func newQueue(pub publisher, cfg config.NATS) *Queue {
	return &Queue{
		pub:     pub,
		breaker: resilience.NewBreaker(cfg.BreakerFailures, cfg.BreakerCooldown),
		timeout: cfg.PublishTimeout,
	}
}

// Publish validates data against the subject schema and sends it. While the
// breaker is open, publishes fail fast with resilience.ErrCircuitOpen.
func (q *Queue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := messagequeue.Validate(subject, data); err != nil {
		return err
	}

	err := q.breaker.Do(func() error {
		pctx := ctx
		if q.timeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, q.timeout)
			defer cancel()
		}
		_, err := q.pub.Publish(pctx, subject, data)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	if err != nil {
		if q.breaker.State() == resilience.StateOpen {
			slog.WarnContext(ctx, "nats publish breaker opened", "subject", subject)
		}
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// Drain flushes pending messages and closes the connection.
func (q *Queue) Drain() error {
	if q.nc == nil {
		return nil
	}
	if err := q.nc.Drain(); err != nil {
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}

// Close shuts down the NATS connection.
func (q *Queue) Close() error {
	if q.nc != nil {
		q.nc.Close()
	}
	return nil
}

// IsConnected reports whether the NATS connection is up.
func (q *Queue) IsConnected() bool {
	return q.nc != nil && q.nc.IsConnected()
}
