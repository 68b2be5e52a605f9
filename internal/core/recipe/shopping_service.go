package recipe

import (
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/shopping"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// ShoppingService 購物清單服務
type ShoppingService struct {
	config  config.ShoppingConfig
	engine  *Engine
	catalog *catalog.Catalog
}

// NewShoppingService 創建購物清單服務
func NewShoppingService(cfg config.ShoppingConfig, engine *Engine, cat *catalog.Catalog) *ShoppingService {
	return &ShoppingService{
		config:  cfg,
		engine:  engine,
		catalog: cat,
	}
}

// Build 依食譜 ID 產生購物清單
func (s *ShoppingService) Build(req ShoppingRequest) (*ShoppingResult, error) {
	format, err := shopping.ParseFormat(req.Format)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	if len(req.RecipeIDs) == 0 {
		return nil, common.NewValidationError("recipe_ids must not be empty")
	}

	recipes, err := s.catalog.GetMany(req.RecipeIDs)
	if err != nil {
		return nil, err
	}

	opts := shopping.Options{
		ServingsMultiplier:   s.config.ServingsMultiplier,
		Pantry:               req.Pantry,
		CombineDuplicates:    s.config.CombineDuplicates,
		IncludeSubstitutions: s.config.IncludeSubstitutions,
	}
	if req.ServingsMultiplier != nil {
		opts.ServingsMultiplier = *req.ServingsMultiplier
	}
	if req.CombineDuplicates != nil {
		opts.CombineDuplicates = *req.CombineDuplicates
	}
	if req.IncludeSubstitutions != nil {
		opts.IncludeSubstitutions = *req.IncludeSubstitutions
	}

	list, err := s.engine.Aggregator.Build(recipes, opts)
	if err != nil {
		return nil, err
	}

	common.LogInfo("購物清單已產生",
		zap.Int("recipes", len(recipes)),
		zap.Int("items", list.TotalItems),
		zap.Int("excluded_by_pantry", len(list.ExcludedByPantry)),
	)
	return &ShoppingResult{List: list, Format: format}, nil
}
