package catalog

import (
	"context"

	"recipe-matcher/internal/pkg/common"
)

// Provider 線上食譜提供者
type Provider interface {
	Name() string
	Search(ctx context.Context, ingredients []string, limit int) ([]common.Recipe, error)
}
