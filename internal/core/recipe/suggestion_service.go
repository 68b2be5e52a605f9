package recipe

import (
	"fmt"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// SuggestionService 相似食譜與個人化推薦服務
type SuggestionService struct {
	config  config.RecommendationConfig
	engine  *Engine
	catalog *catalog.Catalog
}

// NewSuggestionService 創建推薦服務
func NewSuggestionService(cfg config.RecommendationConfig, engine *Engine, cat *catalog.Catalog) *SuggestionService {
	return &SuggestionService{
		config:  cfg,
		engine:  engine,
		catalog: cat,
	}
}

func (s *SuggestionService) limit(requested *int) (int, error) {
	if requested == nil {
		return s.config.DefaultLimit, nil
	}
	if *requested < 0 {
		return 0, common.NewValidationError(fmt.Sprintf("limit must be non-negative, got %d", *requested))
	}
	return *requested, nil
}

// Similar 找出與指定食譜相似的食譜
func (s *SuggestionService) Similar(recipeID string, limit *int) (*Recommendations, error) {
	n, err := s.limit(limit)
	if err != nil {
		return nil, err
	}
	ref, ok := s.catalog.Get(recipeID)
	if !ok {
		return nil, common.ErrRecipeNotFound.Wrap(fmt.Errorf("recipe %q", recipeID))
	}

	scores := s.engine.Recommender.ScoreSimilar(ref, s.catalog.All())
	if n > 0 && len(scores) > n {
		scores = scores[:n]
	}

	common.LogDebug("Similar recipes scored",
		zap.String("recipe_id", recipeID),
		zap.Int("results", len(scores)),
	)
	return &Recommendations{Recommendations: scores}, nil
}

// ForHistory 依使用者喜歡的食譜推薦
func (s *SuggestionService) ForHistory(req HistoryRequest) (*Recommendations, error) {
	n, err := s.limit(req.Limit)
	if err != nil {
		return nil, err
	}
	liked, err := s.catalog.GetMany(common.DedupeStrings(req.LikedIDs))
	if err != nil {
		return nil, err
	}

	scores, err := s.engine.Recommender.ScoreForHistory(liked, s.catalog.All(), recommend.HistoryOptions{
		ExcludeIngredients: req.ExcludeIngredients,
		Limit:              n,
	})
	if err != nil {
		return nil, err
	}

	common.LogDebug("History recommendations scored",
		zap.Int("liked", len(liked)),
		zap.Int("results", len(scores)),
	)
	return &Recommendations{Recommendations: scores}, nil
}
