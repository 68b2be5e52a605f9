package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	s, err := NewRedisStore(ctx, config.CacheConfig{Enabled: true, Backend: "redis", RedisAddr: addr, TTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	key := common.HashKey("test", t.Name(), time.Now().String())
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, s.Set(ctx, key, "value"))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, config.CacheConfig{RedisAddr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCacheUnavailable)
}
