package di

import (
	"context"
	"testing"
	"time"

	"socialgraph/application/ports"
	"socialgraph/application/queries/bus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Cache = (*InMemoryCache)(nil)
	_ bus.Cache   = (*InMemoryCache)(nil)
)

func TestInMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	cache := NewInMemoryCache(0)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "k", 42, time.Minute))
	value, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 42, value)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)

	cache.sweep()
	assert.Equal(t, 0, cache.Len())
}

func TestInMemoryCache_ZeroTTLStoresNothing(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache(0)

	require.NoError(t, cache.Set(ctx, "k", "v", 0))
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestInMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache(time.Hour)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, cache.Set(ctx, "b", 2, time.Minute))

	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())

	cache.Close()
	cache.Close()
}
