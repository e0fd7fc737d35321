package caches

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawing-service/internal/services/cache"
)

func TestMemoryCache_StoreAndGet(t *testing.T) {
	mc := NewMemoryCache(1024, 0, time.Hour)
	ctx := context.Background()

	require.NoError(t, mc.Store(ctx, "drawings/a.png", []byte("abc")))
	data, err := mc.Get(ctx, "drawings/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	_, err = mc.Get(ctx, "drawings/b.png")
	assert.True(t, errors.Is(err, cache.ErrMiss))

	stats := mc.GetStats()
	assert.Equal(t, 1, stats.Objects)
	assert.Equal(t, int64(3), stats.SizeBytes)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)
}

func TestMemoryCache_ReplaceKeepsSizeAccurate(t *testing.T) {
	mc := NewMemoryCache(1024, 0, time.Hour)
	ctx := context.Background()

	require.NoError(t, mc.Store(ctx, "k", []byte("1234")))
	require.NoError(t, mc.Store(ctx, "k", []byte("12")))
	assert.Equal(t, int64(2), mc.GetStats().SizeBytes)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(10, 0, time.Hour)
	ctx := context.Background()

	require.NoError(t, mc.Store(ctx, "a", []byte("aaaa")))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Store(ctx, "b", []byte("bbbb")))
	time.Sleep(time.Millisecond)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	require.NoError(t, mc.Store(ctx, "c", []byte("cccc")))

	exists, _ := mc.Exists(ctx, "a")
	assert.True(t, exists)
	exists, _ = mc.Exists(ctx, "b")
	assert.False(t, exists)
	exists, _ = mc.Exists(ctx, "c")
	assert.True(t, exists)
}

func TestMemoryCache_RejectsOversizedObjects(t *testing.T) {
	mc := NewMemoryCache(100, 4, time.Hour)
	assert.Error(t, mc.Store(context.Background(), "big", []byte("12345")))
	assert.Equal(t, int64(4), mc.MaxObjectSize())
}

func TestMemoryCache_Expiry(t *testing.T) {
	mc := NewMemoryCache(1024, 0, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, mc.Store(ctx, "a", []byte("a")))
	require.NoError(t, mc.Store(ctx, "b", []byte("b")))
	time.Sleep(20 * time.Millisecond)

	_, err := mc.Get(ctx, "a")
	assert.True(t, errors.Is(err, cache.ErrMiss))
	assert.Equal(t, 1, mc.CleanupExpired())
	assert.Equal(t, 0, mc.GetStats().Objects)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	mc := NewMemoryCache(1024, 0, time.Hour)
	ctx := context.Background()

	require.NoError(t, mc.Store(ctx, "a", []byte("a")))
	require.NoError(t, mc.Store(ctx, "b", []byte("b")))
	require.NoError(t, mc.Delete(ctx, "a"))
	assert.Equal(t, 1, mc.GetStats().Objects)

	require.NoError(t, mc.Clear(ctx))
	stats := mc.GetStats()
	assert.Equal(t, 0, stats.Objects)
	assert.Equal(t, int64(0), stats.SizeBytes)
}
