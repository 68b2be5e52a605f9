package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchService 依食材搜尋本地與線上食譜
type SearchService struct {
	config    config.MatchingConfig
	engine    *Engine
	catalog   *catalog.Catalog
	providers []catalog.Provider
}

// NewSearchService 創建搜尋服務
func NewSearchService(cfg config.MatchingConfig, engine *Engine, cat *catalog.Catalog, providers []catalog.Provider) *SearchService {
	return &SearchService{
		config:    cfg,
		engine:    engine,
		catalog:   cat,
		providers: providers,
	}
}

// options 合併請求參數與預設值
func (s *SearchService) options(req SearchRequest) (match.Options, int, error) {
	opts := match.Options{
		Threshold:          s.config.Threshold,
		MinMatchPercentage: s.config.MinMatchPercentage,
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}
	if req.MinMatchPercentage != nil {
		opts.MinMatchPercentage = *req.MinMatchPercentage
	}
	if err := opts.Validate(); err != nil {
		return opts, 0, err
	}

	maxResults := s.config.MaxResults
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}
	if maxResults <= 0 {
		return opts, 0, common.NewValidationError(fmt.Sprintf("max_results must be positive, got %d", maxResults))
	}
	return opts, maxResults, nil
}

// Search 先搜尋本地目錄，結果不足時再向線上提供者查詢
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()

	var ingredients []string
	for _, ing := range req.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	if len(ingredients) == 0 {
		return nil, common.NewValidationError("ingredients must not be empty")
	}

	opts, maxResults, err := s.options(req)
	if err != nil {
		return nil, err
	}

	all, err := s.engine.Ranker.Rank(ingredients, s.catalog.All(), opts)
	if err != nil {
		return nil, err
	}
	localCount := len(all)

	usedAPIs := []string{}
	if req.IncludeOnline && len(s.providers) > 0 && len(all) < maxResults {
		online, used := s.searchOnline(ctx, ingredients, maxResults-len(all))
		ranked, err := s.engine.Ranker.Rank(ingredients, online, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, ranked...)
		usedAPIs = used
	}

	match.SortResults(all)
	total := len(all)
	if len(all) > maxResults {
		all = all[:maxResults]
	}

	result := &SearchResult{
		Matches:        all,
		TotalFound:     total,
		SearchTime:     time.Since(start).Seconds(),
		UsedOnlineAPIs: usedAPIs,
		Suggestions:    s.engine.Analyzer.Suggest(ingredients, all),
	}

	common.LogInfo("食譜搜尋完成",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("local", localCount),
		zap.Int("total", total),
		zap.Strings("providers", usedAPIs),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// searchOnline 併發查詢所有提供者，失敗的提供者記錄後略過
func (s *SearchService) searchOnline(ctx context.Context, ingredients []string, limit int) ([]common.Recipe, []string) {
	results := make([][]common.Recipe, len(s.providers))
	ok := make([]bool, len(s.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		i, p := i, p
		g.Go(func() error {
			recipes, err := p.Search(gctx, ingredients, limit)
			if err != nil {
				common.LogWarn("Online provider failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
				return nil
			}
			results[i], ok[i] = recipes, true
			return nil
		})
	}
	_ = g.Wait()

	var recipes []common.Recipe
	used := []string{}
	for i, p := range s.providers {
		if !ok[i] {
			continue
		}
		used = append(used, p.Name())
		for _, r := range results[i] {
			if _, local := s.catalog.Get(r.ID); local {
				continue
			}
			recipes = append(recipes, r)
		}
	}
	return recipes, used
}
