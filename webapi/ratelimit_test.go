package webapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodTierAssignments(t *testing.T) {
	assert.Equal(t, TierPost, methodTier("chat.postMessage"))
	assert.Equal(t, Tier1, methodTier("apps.connections.open"))
	assert.Equal(t, Tier4, methodTier("users.info"))
	assert.Equal(t, Tier3, methodTier("some.unknown.method"))
}

func TestTierLimiterAdmitsBurst(t *testing.T) {
	tl := NewTierLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Tier4 carries a burst of a full sustained minute, so a handful of
	// immediate requests must not block.
	for i := 0; i < 5; i++ {
		require.NoError(t, tl.Wait(ctx, "users.info"))
	}
}

func TestTierLimiterBlocksWhenExhausted(t *testing.T) {
	tl := NewTierLimiter()

	// Drain the Tier1 burst; the next Wait has to block for most of a
	// minute and trips the short deadline below.
	lim := tl.limiter(Tier1)
	for lim.Allow() {
	}

	blocked, blockedCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer blockedCancel()
	err := tl.Wait(blocked, "apps.connections.open")
	assert.Error(t, err)
}

func TestTierLimiterReusesLimiterPerTier(t *testing.T) {
	tl := NewTierLimiter()
	a := tl.limiter(Tier3)
	b := tl.limiter(Tier3)
	assert.Same(t, a, b)
}
