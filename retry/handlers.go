package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"
)

// baseHandler carries the attempt bound, delay policy and sleep primitive
// shared by the built-in handlers. sleep is replaceable in tests.
type baseHandler struct {
	maxAttempts int
	interval    IntervalCalculator
	sleep       func(ctx context.Context, d time.Duration) error
}

func newBaseHandler(maxAttempts int, interval IntervalCalculator) baseHandler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if interval == nil {
		interval = NewBackoffWithJitter(0, 0, 0)
	}
	return baseHandler{maxAttempts: maxAttempts, interval: interval, sleep: wait}
}

func (b *baseHandler) exhausted(state *State) bool {
	return state.Attempt >= b.maxAttempts
}

func (b *baseHandler) prepare(ctx context.Context, state *State, delay time.Duration) error {
	state.Increment()
	state.LastDelay = delay
	return b.sleep(ctx, delay)
}

// ConnectionErrorHandler retries requests that failed with a transient
// network error: timeouts, resets, refused connections and unexpected EOF.
type ConnectionErrorHandler struct {
	baseHandler
}

// NewConnectionErrorHandler creates a connection-error handler with the given
// attempt bound and delay policy. Zero values use the package defaults.
func NewConnectionErrorHandler(maxAttempts int, interval IntervalCalculator) *ConnectionErrorHandler {
	return &ConnectionErrorHandler{baseHandler: newBaseHandler(maxAttempts, interval)}
}

// Name identifies the handler in log output.
func (h *ConnectionErrorHandler) Name() string { return "connection_error" }

// CanRetry accepts transient network failures while the attempt budget lasts.
// Failures caused by the caller's own context are never retried.
func (h *ConnectionErrorHandler) CanRetry(ctx context.Context, state *State, _ *http.Request, _ *http.Response, err error) bool {
	if err == nil || h.exhausted(state) || ctx.Err() != nil {
		return false
	}
	return isRetryableNetError(err)
}

// Prepare waits for the next backoff delay.
func (h *ConnectionErrorHandler) Prepare(ctx context.Context, state *State, _ *http.Response) error {
	return h.prepare(ctx, state, h.interval.NextDelay(state.Attempt))
}

// ServerErrorHandler retries responses with a 5xx status code. It is not part
// of the default chain because non-idempotent calls may have taken effect
// server-side before the failure.
type ServerErrorHandler struct {
	baseHandler
}

// NewServerErrorHandler creates a server-error handler with the given attempt
// bound and delay policy.
func NewServerErrorHandler(maxAttempts int, interval IntervalCalculator) *ServerErrorHandler {
	return &ServerErrorHandler{baseHandler: newBaseHandler(maxAttempts, interval)}
}

// Name identifies the handler in log output.
func (h *ServerErrorHandler) Name() string { return "server_error" }

// CanRetry accepts 5xx responses while the attempt budget lasts.
func (h *ServerErrorHandler) CanRetry(ctx context.Context, state *State, _ *http.Request, resp *http.Response, _ error) bool {
	if resp == nil || h.exhausted(state) || ctx.Err() != nil {
		return false
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

// Prepare waits for the next backoff delay.
func (h *ServerErrorHandler) Prepare(ctx context.Context, state *State, _ *http.Response) error {
	return h.prepare(ctx, state, h.interval.NextDelay(state.Attempt))
}

// RateLimitHandler retries 429 responses, honoring the server-supplied
// Retry-After header when present and falling back to backoff otherwise.
type RateLimitHandler struct {
	baseHandler
}

// NewRateLimitHandler creates a rate-limit handler with the given attempt
// bound and fallback delay policy.
func NewRateLimitHandler(maxAttempts int, interval IntervalCalculator) *RateLimitHandler {
	return &RateLimitHandler{baseHandler: newBaseHandler(maxAttempts, interval)}
}

// Name identifies the handler in log output.
func (h *RateLimitHandler) Name() string { return "rate_limit" }

// CanRetry accepts 429 responses while the attempt budget lasts.
func (h *RateLimitHandler) CanRetry(ctx context.Context, state *State, _ *http.Request, resp *http.Response, _ error) bool {
	if resp == nil || h.exhausted(state) || ctx.Err() != nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests
}

// Prepare waits for the server-supplied Retry-After duration, or the next
// backoff delay when the header is absent or unparseable.
func (h *RateLimitHandler) Prepare(ctx context.Context, state *State, resp *http.Response) error {
	delay, ok := RetryAfter(resp)
	if !ok {
		delay = h.interval.NextDelay(state.Attempt)
	}
	return h.prepare(ctx, state, delay)
}

// RetryAfter extracts the Retry-After header as a duration. The platform
// sends whole seconds; HTTP-date values are not used by the platform and are
// not supported.
func RetryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// isRetryableNetError reports whether err represents a transport failure
// worth retrying. Context cancellation is excluded: it reflects the caller's
// intent, not a transient fault.
func isRetryableNetError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE)
}
