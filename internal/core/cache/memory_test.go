package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryStore(t *testing.T, maxSize int) *MemoryStore {
	t.Helper()
	m := NewMemoryStore(config.CacheConfig{
		Enabled: true,
		Backend: "memory",
		MaxSize: maxSize,
		TTL:     time.Minute,
	})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore(t, 10)

	_, err := m.Get(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))

	require.NoError(t, m.Set(ctx, "k", "v"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore(t, 10)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v"))
	now = now.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.Equal(t, 0, m.GetStats()["size"])
}

func TestMemoryStoreEvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore(t, 2)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	got, err = m.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestMemoryStoreOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	m := newTestMemoryStore(t, 1)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, int64(0), m.GetStats()["evictions"])
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	m := NewMemoryStore(config.CacheConfig{MaxSize: 1, TTL: time.Minute, CleanupInterval: time.Millisecond})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = NewStore(config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 5, TTL: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, s)
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)
	assert.NoError(t, s.Close())

	_, err = NewStore(config.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.Error(t, err)
}
