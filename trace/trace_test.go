package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	id, ok := IDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", id)
}

func TestIDFromContextMissing(t *testing.T) {
	id, ok := IDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestIDFromContextEmptyValue(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	_, ok := IDFromContext(ctx)
	assert.False(t, ok)
}

func TestEnsureRequestID(t *testing.T) {
	t.Run("ExistingID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-456")
		assert.Equal(t, "req-456", EnsureRequestID(ctx))
	})

	t.Run("GeneratedID", func(t *testing.T) {
		id := EnsureRequestID(context.Background())
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("GeneratedIDsAreUnique", func(t *testing.T) {
		a := EnsureRequestID(context.Background())
		b := EnsureRequestID(context.Background())
		assert.NotEqual(t, a, b)
	})
}
