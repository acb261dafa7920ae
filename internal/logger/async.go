package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer allows flushing and stopping the async handler.
type Closer interface {
	Close()
}

type nopCloser struct{}

func (nopCloser) Close() {}

// AsyncHandler moves record formatting and writes off the request path.
// Records are queued on a bounded channel and written by one goroutine;
// when the queue is full the record is dropped and counted.
type AsyncHandler struct {
	inner slog.Handler
	state *asyncState
}

type asyncState struct {
	queue   chan asyncRecord
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

type asyncRecord struct {
	handler slog.Handler
	rec     slog.Record
}

// NewAsyncHandler starts the writer goroutine for inner with the given queue size.
func NewAsyncHandler(inner slog.Handler, size int) *AsyncHandler {
	st := &asyncState{
		queue: make(chan asyncRecord, size),
		done:  make(chan struct{}),
	}
	go st.run()
	return &AsyncHandler{inner: inner, state: st}
}

func (st *asyncState) run() {
	defer close(st.done)
	for item := range st.queue {
		_ = item.handler.Handle(context.Background(), item.rec)
	}
}

// Enabled delegates to the inner handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle enqueues a clone of the record. Drops if the queue is full.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.state.queue <- asyncRecord{handler: h.inner, rec: rec.Clone()}:
	default:
		h.state.dropped.Add(1)
	}
	return nil
}

// WithAttrs returns a handler sharing the same queue with a derived inner handler.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), state: h.state}
}

// WithGroup returns a handler sharing the same queue with a derived inner handler.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), state: h.state}
}

// Dropped returns the number of records discarded because the queue was full.
func (h *AsyncHandler) Dropped() int64 {
	return h.state.dropped.Load()
}

// Close stops accepting records and waits until queued records are written.
// Safe to call more than once.
func (h *AsyncHandler) Close() {
	h.state.once.Do(func() {
		close(h.state.queue)
	})
	<-h.state.done
}
