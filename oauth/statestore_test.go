package oauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreIssueAndConsume(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	require.NoError(t, store.Consume(ctx, state))

	// One-shot: a second consume fails.
	assert.ErrorIs(t, store.Consume(ctx, state), ErrInvalidState)
}

func TestMemoryStateStoreRejectsUnknown(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	assert.ErrorIs(t, store.Consume(context.Background(), "made-up"), ErrInvalidState)
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	state, err := store.Issue(context.Background())
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	assert.ErrorIs(t, store.Consume(context.Background(), state), ErrInvalidState)
}

func TestFileStateStoreIssueAndConsume(t *testing.T) {
	store, err := NewFileStateStore(t.TempDir(), time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Consume(ctx, state))
	assert.ErrorIs(t, store.Consume(ctx, state), ErrInvalidState)
}

func TestFileStateStoreExpiry(t *testing.T) {
	store, err := NewFileStateStore(t.TempDir(), time.Minute)
	require.NoError(t, err)
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	state, err := store.Issue(context.Background())
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	assert.ErrorIs(t, store.Consume(context.Background(), state), ErrInvalidState)
}

func TestFileStateStoreRejectsNonUUID(t *testing.T) {
	store, err := NewFileStateStore(t.TempDir(), time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Consume(context.Background(), "../../etc/passwd"), ErrInvalidState)
}
