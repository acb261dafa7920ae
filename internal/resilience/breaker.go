// Package resilience guards calls to external dependencies.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the position of a Breaker.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Breaker stops calling a failing dependency after threshold consecutive
// failures. Once cooldown has passed, a single probe call is let through:
// success closes the breaker, failure reopens it for another cooldown.
type Breaker struct {
	mu          sync.Mutex
	threshold   int
	cooldown    time.Duration
	consecutive int
	openUntil   time.Time
	probing     bool
	now         func() time.Time
}

// NewBreaker creates a closed Breaker. A threshold below 1 is treated as 1.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		threshold: max(threshold, 1),
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// errPanicked records a call that panicked as a failure.
var errPanicked = errors.New("call panicked")

// Do runs fn unless the breaker is open. A panic in fn counts as a failure
// and is propagated to the caller.
func (b *Breaker) Do(fn func() error) error {
	probe, ok := b.acquire()
	if !ok {
		return ErrCircuitOpen
	}

	panicked := true
	defer func() {
		if panicked {
			b.release(probe, errPanicked)
		}
	}()

	err := fn()
	panicked = false
	b.release(probe, err)
	return err
}

// State reports the breaker position at the current time.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() State {
	switch {
	case b.consecutive < b.threshold:
		return StateClosed
	case b.now().Before(b.openUntil) || b.probing:
		return StateOpen
	default:
		return StateHalfOpen
	}
}

func (b *Breaker) acquire() (probe, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateClosed:
		return false, true
	case StateHalfOpen:
		b.probing = true
		return true, true
	default:
		return false, false
	}
}

func (b *Breaker) release(probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if probe {
		b.probing = false
	}
	if err == nil {
		b.consecutive = 0
		return
	}
	b.consecutive++
	if b.consecutive >= b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
	}
}
