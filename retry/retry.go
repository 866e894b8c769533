// Package retry implements the pluggable retry-handler chain shared by every
// HTTP-based client in the SDK. A handler is a predicate plus delay policy:
// it decides whether a failed request may be re-issued and how long to wait
// before the next attempt. Handlers are consulted in order; the first one
// that accepts a failure owns the delay for that attempt.
package retry

import (
	"context"
	"net/http"
	"time"
)

// State tracks retry progress for a single logical request. A fresh State is
// created per call and mutated by the handler that accepts each failure.
type State struct {
	// Attempt is the number of retries performed so far (0 before the first retry).
	Attempt int
	// LastDelay is the delay applied before the most recent retry.
	LastDelay time.Duration
}

// Increment records that another retry attempt is about to happen.
func (s *State) Increment() {
	s.Attempt++
}

// Handler decides whether a failed request should be retried and computes the
// delay before the next attempt. CanRetry must not block; Prepare performs
// the wait and must honor context cancellation.
type Handler interface {
	// Name identifies the handler in log output.
	Name() string
	// CanRetry reports whether the failure described by resp/err is retryable
	// given the current state. Either resp or err may be nil.
	CanRetry(ctx context.Context, state *State, req *http.Request, resp *http.Response, err error) bool
	// Prepare waits for the computed backoff delay and updates state. It
	// returns early with the context error when ctx is cancelled.
	Prepare(ctx context.Context, state *State, resp *http.Response) error
}

// DefaultMaxAttempts bounds retries for the built-in handlers.
const DefaultMaxAttempts = 3

// DefaultHandlers returns the handler chain used by SDK clients unless the
// caller overrides it: transient connection errors and rate-limited responses
// are retried, everything else propagates.
func DefaultHandlers() []Handler {
	return []Handler{
		NewConnectionErrorHandler(DefaultMaxAttempts, NewBackoffWithJitter(0, 0, 0)),
		NewRateLimitHandler(DefaultMaxAttempts, NewBackoffWithJitter(0, 0, 0)),
	}
}

// wait blocks for d or until ctx is cancelled, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
