package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "kiosk:blocked:K-001", "too_many_failures", 0))

	value, ok, err := store.Get(ctx, "kiosk:blocked:K-001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "too_many_failures", value)

	_, ok, err = store.Get(ctx, "kiosk:blocked:K-002")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "session:abc", "1", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := store.Get(ctx, "session:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	require.NoError(t, store.Delete(ctx, "k"))

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
