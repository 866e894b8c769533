package webapi

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Tier classifies Web API methods by the platform's published rate-limit
// tiers. Posting messages has its own per-channel budget; the client applies
// a conservative global limit for it.
type Tier int

const (
	// Tier1 covers rarely-called methods (roughly 1 request per minute).
	Tier1 Tier = iota + 1
	// Tier2 covers infrequent methods (roughly 20 requests per minute).
	Tier2
	// Tier3 covers the bulk of the API (roughly 50 requests per minute).
	Tier3
	// Tier4 covers high-volume methods (roughly 100 requests per minute).
	Tier4
	// TierPost covers message posting (about 1 request per second).
	TierPost
)

// tierRates maps each tier to its sustained request rate per second.
var tierRates = map[Tier]rate.Limit{
	Tier1:    rate.Limit(1.0 / 60),
	Tier2:    rate.Limit(20.0 / 60),
	Tier3:    rate.Limit(50.0 / 60),
	Tier4:    rate.Limit(100.0 / 60),
	TierPost: rate.Limit(1),
}

// methodTiers assigns tiers to the methods this SDK wraps. Unlisted methods
// default to Tier3.
var methodTiers = map[string]Tier{
	"chat.postMessage":   TierPost,
	"chat.postEphemeral": TierPost,

	"conversations.history": Tier3,
	"conversations.replies": Tier3,
	"conversations.list":    Tier2,
	"users.list":            Tier2,
	"emoji.list":            Tier2,
	"team.info":             Tier3,

	"conversations.members": Tier4,
	"conversations.info":    Tier4,
	"users.info":            Tier4,
	"users.getPresence":     Tier4,
	"auth.test":             Tier4,
	"api.test":              Tier4,

	"apps.connections.open": Tier1,
	"rtm.connect":           Tier1,
}

// TierLimiter applies client-side rate limiting per method tier so that
// well-behaved applications rarely see a 429 at all. Limiters are created
// lazily with a burst equal to one sustained minute of traffic.
type TierLimiter struct {
	mu       sync.Mutex
	limiters map[Tier]*rate.Limiter
}

// NewTierLimiter creates a tier-based client-side rate limiter.
func NewTierLimiter() *TierLimiter {
	return &TierLimiter{limiters: make(map[Tier]*rate.Limiter)}
}

// Wait blocks until the method's tier budget admits another request, or the
// context is cancelled.
func (t *TierLimiter) Wait(ctx context.Context, method string) error {
	return t.limiter(methodTier(method)).Wait(ctx)
}

func (t *TierLimiter) limiter(tier Tier) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[tier]
	if !ok {
		r := tierRates[tier]
		burst := int(float64(r)*60) + 1
		l = rate.NewLimiter(r, burst)
		t.limiters[tier] = l
	}
	return l
}

func methodTier(method string) Tier {
	if tier, ok := methodTiers[method]; ok {
		return tier
	}
	return Tier3
}
