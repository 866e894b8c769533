package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// instantSleep replaces the handler's wait with a recorder so tests observe
// the computed delay without actually sleeping.
func instantSleep(recorded *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func respWithStatus(code int) *http.Response {
	return &http.Response{StatusCode: code, Header: http.Header{}}
}

func TestConnectionErrorHandlerCanRetry(t *testing.T) {
	h := NewConnectionErrorHandler(3, FixedInterval{Delay: time.Millisecond})
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Timeout", timeoutError{}, true},
		{"OpErrorTimeout", &net.OpError{Op: "read", Err: timeoutError{}}, true},
		{"ConnReset", syscall.ECONNRESET, true},
		{"ConnRefused", syscall.ECONNREFUSED, true},
		{"BrokenPipe", syscall.EPIPE, true},
		{"UnexpectedEOF", io.ErrUnexpectedEOF, true},
		{"EOF", io.EOF, true},
		{"ContextCanceled", context.Canceled, false},
		{"DeadlineExceeded", context.DeadlineExceeded, false},
		{"PlainError", errors.New("boom"), false},
		{"NoError", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &State{}
			assert.Equal(t, tt.want, h.CanRetry(ctx, state, nil, nil, tt.err))
		})
	}
}

func TestConnectionErrorHandlerStopsAtMaxAttempts(t *testing.T) {
	h := NewConnectionErrorHandler(2, FixedInterval{Delay: time.Microsecond})
	ctx := context.Background()
	state := &State{}

	// Two retries are allowed, the third is refused.
	require.True(t, h.CanRetry(ctx, state, nil, nil, syscall.ECONNRESET))
	require.NoError(t, h.Prepare(ctx, state, nil))
	require.True(t, h.CanRetry(ctx, state, nil, nil, syscall.ECONNRESET))
	require.NoError(t, h.Prepare(ctx, state, nil))

	assert.Equal(t, 2, state.Attempt)
	assert.False(t, h.CanRetry(ctx, state, nil, nil, syscall.ECONNRESET))
}

func TestConnectionErrorHandlerRefusesWhenContextDone(t *testing.T) {
	h := NewConnectionErrorHandler(3, FixedInterval{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, h.CanRetry(ctx, &State{}, nil, nil, syscall.ECONNRESET))
}

func TestServerErrorHandlerCanRetry(t *testing.T) {
	h := NewServerErrorHandler(3, FixedInterval{Delay: time.Millisecond})
	ctx := context.Background()

	assert.True(t, h.CanRetry(ctx, &State{}, nil, respWithStatus(500), nil))
	assert.True(t, h.CanRetry(ctx, &State{}, nil, respWithStatus(503), nil))
	assert.False(t, h.CanRetry(ctx, &State{}, nil, respWithStatus(429), nil))
	assert.False(t, h.CanRetry(ctx, &State{}, nil, respWithStatus(200), nil))
	assert.False(t, h.CanRetry(ctx, &State{}, nil, nil, nil))
}

func TestRateLimitHandlerHonorsRetryAfter(t *testing.T) {
	var delays []time.Duration
	h := NewRateLimitHandler(3, FixedInterval{Delay: time.Minute})
	h.sleep = instantSleep(&delays)

	resp := respWithStatus(429)
	resp.Header.Set("Retry-After", "7")

	state := &State{}
	require.True(t, h.CanRetry(context.Background(), state, nil, resp, nil))
	require.NoError(t, h.Prepare(context.Background(), state, resp))

	require.Len(t, delays, 1)
	assert.Equal(t, 7*time.Second, delays[0])
	assert.Equal(t, 7*time.Second, state.LastDelay)
	assert.Equal(t, 1, state.Attempt)
}

func TestRateLimitHandlerFallsBackToInterval(t *testing.T) {
	var delays []time.Duration
	h := NewRateLimitHandler(3, FixedInterval{Delay: 123 * time.Millisecond})
	h.sleep = instantSleep(&delays)

	tests := []struct {
		name       string
		retryAfter string
	}{
		{"MissingHeader", ""},
		{"Unparseable", "soon"},
		{"Negative", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delays = delays[:0]
			resp := respWithStatus(429)
			if tt.retryAfter != "" {
				resp.Header.Set("Retry-After", tt.retryAfter)
			}

			require.NoError(t, h.Prepare(context.Background(), &State{}, resp))
			require.Len(t, delays, 1)
			assert.Equal(t, 123*time.Millisecond, delays[0])
		})
	}
}

func TestRetryAfter(t *testing.T) {
	resp := respWithStatus(429)
	resp.Header.Set("Retry-After", "30")

	d, ok := RetryAfter(resp)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, d)

	_, ok = RetryAfter(respWithStatus(429))
	assert.False(t, ok)

	_, ok = RetryAfter(nil)
	assert.False(t, ok)
}

func TestPrepareReturnsContextError(t *testing.T) {
	h := NewConnectionErrorHandler(3, FixedInterval{Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Prepare(ctx, &State{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultHandlers(t *testing.T) {
	handlers := DefaultHandlers()

	require.Len(t, handlers, 2)
	assert.Equal(t, "connection_error", handlers[0].Name())
	assert.Equal(t, "rate_limit", handlers[1].Name())
}

func TestWaitZeroDelay(t *testing.T) {
	assert.NoError(t, wait(context.Background(), 0))
}
