package webapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateWalksAllPages(t *testing.T) {
	pages := map[string]string{"": "p2", "p2": "p3", "p3": ""}
	var visited []string

	err := Paginate(context.Background(), func(_ context.Context, cursor string) (string, error) {
		visited = append(visited, cursor)
		return pages[cursor], nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "p2", "p3"}, visited)
}

func TestPaginateStopsOnFetchError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := Paginate(context.Background(), func(_ context.Context, cursor string) (string, error) {
		calls++
		if cursor == "p2" {
			return "", boom
		}
		return "p2", nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPaginateDetectsStuckCursor(t *testing.T) {
	first := true
	err := Paginate(context.Background(), func(_ context.Context, _ string) (string, error) {
		if first {
			first = false
			return "same", nil
		}
		return "same", nil
	})
	assert.ErrorIs(t, err, ErrCursorLoop)
}

func TestPaginateHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Paginate(ctx, func(_ context.Context, _ string) (string, error) {
		t.Fatal("fetch should not run after cancellation")
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
