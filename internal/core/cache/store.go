package cache

import (
	"context"
	"fmt"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

// Store 快取儲存介面；未命中時返回 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// StatsProvider 可提供統計資訊的快取
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// NewStore 依設定建立快取；停用時返回 nil
func NewStore(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg), nil
	case "redis":
		store, err := NewRedisStore(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
