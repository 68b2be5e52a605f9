package recipe

import (
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/core/shopping"
)

// SearchRequest 依食材搜尋食譜的請求
type SearchRequest struct {
	Ingredients        []string `json:"ingredients" binding:"required"`
	IncludeOnline      bool     `json:"include_online"`
	MinMatchPercentage *float64 `json:"min_match_percentage,omitempty"`
	Threshold          *float64 `json:"threshold,omitempty"`
	MaxResults         *int     `json:"max_results,omitempty"`
}

// SearchResult 搜尋結果
type SearchResult struct {
	Matches        []match.MatchResult `json:"matches"`
	TotalFound     int                 `json:"total_found"`
	SearchTime     float64             `json:"search_time"`
	UsedOnlineAPIs []string            `json:"used_online_apis"`
	Suggestions    []string            `json:"suggestions"`
}

// ParseRequest 解析食材行的請求
type ParseRequest struct {
	Lines              []string `json:"lines" binding:"required"`
	ServingsMultiplier *float64 `json:"servings_multiplier,omitempty"`
}

// ParsedIngredient 單一食材行的解析結果
type ParsedIngredient struct {
	Line          string   `json:"line"`
	Quantity      *float64 `json:"quantity,omitempty"`
	Unit          string   `json:"unit,omitempty"`
	CanonicalUnit string   `json:"canonical_unit,omitempty"`
	Remainder     string   `json:"remainder"`
	Key           string   `json:"key"`
	Category      string   `json:"category"`
}

// HistoryRequest 依使用者喜好推薦的請求
type HistoryRequest struct {
	LikedIDs           []string `json:"liked_ids" binding:"required"`
	ExcludeIngredients []string `json:"exclude_ingredients"`
	Limit              *int     `json:"limit,omitempty"`
}

// Recommendations 推薦結果
type Recommendations struct {
	Recommendations []recommend.Score `json:"recommendations"`
}

// ShoppingRequest 產生購物清單的請求
type ShoppingRequest struct {
	RecipeIDs            []string `json:"recipe_ids" binding:"required"`
	ServingsMultiplier   *float64 `json:"servings_multiplier,omitempty"`
	Pantry               []string `json:"pantry"`
	CombineDuplicates    *bool    `json:"combine_duplicates,omitempty"`
	IncludeSubstitutions *bool    `json:"include_substitutions,omitempty"`
	Format               string   `json:"format,omitempty"`
}

// ShoppingResult 購物清單與匯出格式
type ShoppingResult struct {
	List   *shopping.List
	Format shopping.Format
}
