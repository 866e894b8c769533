package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedInterval(t *testing.T) {
	f := FixedInterval{Delay: 250 * time.Millisecond}

	for attempt := 0; attempt < 5; attempt++ {
		assert.Equal(t, 250*time.Millisecond, f.NextDelay(attempt))
	}
}

func TestBackoffWithJitterDefaults(t *testing.T) {
	b := NewBackoffWithJitter(0, 0, 0)

	assert.Equal(t, DefaultBackoffBase, b.Base)
	assert.Equal(t, DefaultBackoffCap, b.Cap)
	assert.Equal(t, DefaultJitterFraction, b.JitterFraction)
}

func TestBackoffDelayBounds(t *testing.T) {
	b := NewBackoffWithJitter(100*time.Millisecond, 2*time.Second, 0.25)

	for attempt := 0; attempt < 20; attempt++ {
		d := b.NextDelay(attempt)

		deterministic := 100 * time.Millisecond << uint(attempt)
		if attempt >= 62 || deterministic <= 0 || deterministic > b.Cap {
			deterministic = b.Cap
		}

		require.GreaterOrEqual(t, d, deterministic, "attempt %d", attempt)
		require.Less(t, d, deterministic+time.Duration(float64(deterministic)*0.25)+time.Millisecond, "attempt %d", attempt)
	}
}

func TestBackoffMonotonicallyNonDecreasingBelowCap(t *testing.T) {
	// With jitter fraction <= 1 the deterministic part doubles faster than
	// jitter can shrink the observed delay, so successive delays below the
	// cap never decrease.
	b := NewBackoffWithJitter(50*time.Millisecond, time.Hour, 0.25)

	prev := time.Duration(0)
	for attempt := 0; attempt < 12; attempt++ {
		d := b.NextDelay(attempt)
		require.GreaterOrEqual(t, d, prev, "attempt %d", attempt)
		prev = d
	}
}

func TestBackoffCapsAtMax(t *testing.T) {
	b := NewBackoffWithJitter(time.Second, 4*time.Second, 0.25)

	// Far past the doubling horizon the delay stays near the cap.
	d := b.NextDelay(50)
	assert.GreaterOrEqual(t, d, 4*time.Second)
	assert.LessOrEqual(t, d, 5*time.Second)
}

func TestBackoffNegativeAttempt(t *testing.T) {
	b := NewBackoffWithJitter(time.Second, 4*time.Second, 0.25)
	assert.GreaterOrEqual(t, b.NextDelay(-1), time.Second)
}
