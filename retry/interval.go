package retry

import (
	"math/rand"
	"sync"
	"time"
)

// Default backoff parameters for the built-in handlers.
const (
	DefaultBackoffBase    = 500 * time.Millisecond
	DefaultBackoffCap     = 32 * time.Second
	DefaultJitterFraction = 0.25
)

// IntervalCalculator computes the delay before a given retry attempt.
// Attempt numbering starts at 0 for the first retry.
type IntervalCalculator interface {
	NextDelay(attempt int) time.Duration
}

// FixedInterval waits the same duration before every retry.
type FixedInterval struct {
	Delay time.Duration
}

// NextDelay returns the configured fixed delay.
func (f FixedInterval) NextDelay(int) time.Duration {
	return f.Delay
}

// BackoffWithJitter doubles the delay on each attempt, capped at a maximum,
// with a random additive jitter proportional to the deterministic delay.
// With JitterFraction <= 1 the sequence of delays below the cap is
// monotonically non-decreasing: the deterministic part doubles while the
// jitter never exceeds the deterministic part itself.
type BackoffWithJitter struct {
	Base           time.Duration
	Cap            time.Duration
	JitterFraction float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBackoffWithJitter creates a backoff calculator. Zero values fall back to
// the package defaults.
func NewBackoffWithJitter(base, maxDelay time.Duration, jitterFraction float64) *BackoffWithJitter {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if maxDelay <= 0 {
		maxDelay = DefaultBackoffCap
	}
	if jitterFraction <= 0 || jitterFraction > 1 {
		jitterFraction = DefaultJitterFraction
	}
	return &BackoffWithJitter{
		Base:           base,
		Cap:            maxDelay,
		JitterFraction: jitterFraction,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NextDelay returns base * 2^attempt capped at Cap, plus jitter.
func (b *BackoffWithJitter) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := b.Cap
	// Shifting beyond 62 bits overflows time.Duration; anything that far in
	// is at the cap anyway.
	if attempt < 62 {
		delay = b.Base << uint(attempt)
		if delay <= 0 || delay > b.Cap {
			delay = b.Cap
		}
	}

	return delay + b.jitter(delay)
}

func (b *BackoffWithJitter) jitter(delay time.Duration) time.Duration {
	span := int64(float64(delay) * b.JitterFraction)
	if span <= 0 {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Duration(b.rng.Int63n(span))
}
