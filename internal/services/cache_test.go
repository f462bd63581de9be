package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, cache.Set(ctx, "k", doc{Name: "yankees", Count: 3}, time.Minute))

	var got doc
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, doc{Name: "yankees", Count: 3}, got)
}

func TestMemoryCacheMiss(t *testing.T) {
	cache := NewMemoryCache()

	var got string
	assert.ErrorIs(t, cache.Get(context.Background(), "absent", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	var got string
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss)
	assert.Equal(t, 0, cache.Len(), "expired entry is removed on read")
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 0))
	time.Sleep(15 * time.Millisecond)

	var got string
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, "v", got)
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", 1, 0))
	require.NoError(t, cache.Set(ctx, "b", 2, 0))
	require.NoError(t, cache.Delete(ctx, "a", "b", "missing"))

	var got int
	assert.ErrorIs(t, cache.Get(ctx, "a", &got), ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "b", &got), ErrCacheMiss)
}
