package catalog

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// CachedProvider 以快取包裝線上提供者
type CachedProvider struct {
	provider Provider
	store    cache.Store
}

// NewCachedProvider 創建帶快取的提供者；store 為 nil 時直接返回原提供者
func NewCachedProvider(provider Provider, store cache.Store) Provider {
	if store == nil {
		return provider
	}
	return &CachedProvider{provider: provider, store: store}
}

// Name 提供者名稱
func (p *CachedProvider) Name() string {
	return p.provider.Name()
}

// Search 先查快取，未命中時呼叫提供者並寫回
func (p *CachedProvider) Search(ctx context.Context, ingredients []string, limit int) ([]common.Recipe, error) {
	key := cacheKey(p.provider.Name(), ingredients, limit)

	if data, err := p.store.Get(ctx, key); err == nil {
		var recipes []common.Recipe
		if err := common.ParseJSON(data, &recipes); err == nil {
			return recipes, nil
		}
		common.LogWarn("Discarding corrupt cache entry", zap.String("key", key))
	} else if !errors.Is(err, common.ErrCacheMiss) {
		common.LogWarn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	recipes, err := p.provider.Search(ctx, ingredients, limit)
	if err != nil {
		return nil, err
	}

	data, err := common.ToJSON(recipes)
	if err == nil {
		err = p.store.Set(ctx, key, data)
	}
	if err != nil {
		common.LogWarn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return recipes, nil
}

// cacheKey 食材順序與大小寫不影響鍵值
func cacheKey(provider string, ingredients []string, limit int) string {
	parts := make([]string, 0, len(ingredients)+1)
	for _, ing := range ingredients {
		if ing = strings.ToLower(strings.TrimSpace(ing)); ing != "" {
			parts = append(parts, ing)
		}
	}
	sort.Strings(parts)
	parts = common.DedupeStrings(parts)
	parts = append(parts, "limit="+strconv.Itoa(limit))
	return common.HashKey("provider:"+provider, parts...)
}
