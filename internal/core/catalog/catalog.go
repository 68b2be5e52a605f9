package catalog

import (
	"context"
	"fmt"

	"recipe-matcher/internal/pkg/common"
)

// Source 食譜來源
type Source interface {
	Recipes(ctx context.Context) ([]common.Recipe, error)
}

// StaticSource 記憶體中的固定食譜清單
type StaticSource []common.Recipe

// Recipes 返回固定清單
func (s StaticSource) Recipes(ctx context.Context) ([]common.Recipe, error) {
	return []common.Recipe(s), nil
}

// Catalog 本地食譜目錄（載入後唯讀）
type Catalog struct {
	recipes []common.Recipe
	byID    map[string]int
}

// Load 從來源載入並驗證食譜
func Load(ctx context.Context, src Source) (*Catalog, error) {
	recipes, err := src.Recipes(ctx)
	if err != nil {
		return nil, common.ErrCatalogLoad.Wrap(err)
	}
	return New(recipes)
}

// New 以食譜清單建立目錄，ID 不得重複
func New(recipes []common.Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]common.Recipe, 0, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, common.ErrCatalogLoad.Wrap(err)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, common.ErrCatalogLoad.Wrap(fmt.Errorf("duplicate recipe id %q", r.ID))
		}
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}
	return c, nil
}

// Len 食譜數量
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// All 返回所有食譜（副本）
func (c *Catalog) All() []common.Recipe {
	out := make([]common.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Get 依 ID 取得食譜
func (c *Catalog) Get(id string) (common.Recipe, bool) {
	i, ok := c.byID[id]
	if !ok {
		return common.Recipe{}, false
	}
	return c.recipes[i], true
}

// GetMany 依序取得多份食譜，任一不存在即返回 ErrRecipeNotFound
func (c *Catalog) GetMany(ids []string) ([]common.Recipe, error) {
	out := make([]common.Recipe, 0, len(ids))
	for _, id := range ids {
		r, ok := c.Get(id)
		if !ok {
			return nil, common.ErrRecipeNotFound.Wrap(fmt.Errorf("recipe %q", id))
		}
		out = append(out, r)
	}
	return out, nil
}
