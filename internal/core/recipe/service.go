package recipe

import (
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/core/shopping"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Engine 比對引擎元件，建立後唯讀
type Engine struct {
	Tables      *ingredient.Tables
	Scorer      *ingredient.Scorer
	Ranker      *match.Ranker
	Analyzer    *match.Analyzer
	Recommender *recommend.Scorer
	Aggregator  *shopping.Aggregator
}

// NewEngine 以設定與資料表建立引擎
func NewEngine(cfg *config.Config, tables *ingredient.Tables) (*Engine, error) {
	scorer := ingredient.NewScorer(tables)
	recommender, err := recommend.NewScorer(tables, WeightsFromConfig(cfg.Recommendation))
	if err != nil {
		return nil, err
	}
	return &Engine{
		Tables:      tables,
		Scorer:      scorer,
		Ranker:      match.NewRanker(scorer, BonusesFromConfig(cfg.Matching)),
		Analyzer:    match.NewAnalyzer(tables),
		Recommender: recommender,
		Aggregator:  shopping.NewAggregator(tables),
	}, nil
}

// BonusesFromConfig 將設定轉換為信心分數加成
func BonusesFromConfig(c config.MatchingConfig) match.Bonuses {
	providers := make(map[string]float64, len(c.ProviderBonuses))
	for k, v := range c.ProviderBonuses {
		providers[k] = v
	}
	return match.Bonuses{
		Local:         c.LocalBonus,
		Providers:     providers,
		NoMissing:     c.NoMissingBonus,
		FewMissing:    c.FewMissingBonus,
		FewMissingMax: c.FewMissingMax,
	}
}

// WeightsFromConfig 將設定轉換為推薦權重
func WeightsFromConfig(c config.RecommendationConfig) recommend.Weights {
	bands := make([]recommend.TimeBand, 0, len(c.TimeBands))
	for _, b := range c.TimeBands {
		bands = append(bands, recommend.TimeBand{WithinMinutes: b.WithinMinutes, Bonus: b.Bonus})
	}
	return recommend.Weights{
		Cuisine:    c.Cuisine,
		Difficulty: c.Difficulty,
		TimeBands:  bands,
		Tag:        c.Tag,
		Ingredient: c.Ingredient,
		Rating:     c.Rating,
	}
}

// NewProviders 依設定建立線上提供者（停用時為空）
func NewProviders(cfg config.CatalogConfig, store cache.Store) []catalog.Provider {
	if !cfg.Online.Enabled {
		return nil
	}
	common.LogInfo("Online recipe search enabled",
		zap.String("provider", catalog.MealDBName),
		zap.Bool("cached", store != nil),
	)
	return []catalog.Provider{
		catalog.NewCachedProvider(catalog.NewMealDBProvider(cfg.Online), store),
	}
}

// Service 食譜服務集合
type Service struct {
	Catalog         *catalog.Catalog
	Search          *SearchService
	Ingredients     *IngredientService
	Recommendations *SuggestionService
	Shopping        *ShoppingService
}

// NewService 創建新的食譜服務
func NewService(cfg *config.Config, engine *Engine, cat *catalog.Catalog, providers []catalog.Provider) *Service {
	return &Service{
		Catalog:         cat,
		Search:          NewSearchService(cfg.Matching, engine, cat, providers),
		Ingredients:     NewIngredientService(engine),
		Recommendations: NewSuggestionService(cfg.Recommendation, engine, cat),
		Shopping:        NewShoppingService(cfg.Shopping, engine, cat),
	}
}
