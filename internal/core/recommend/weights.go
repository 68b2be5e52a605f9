package recommend

import (
	"fmt"
	"math"
	"sort"

	"recipe-matcher/internal/pkg/common"
)

// 評分因子名稱
const (
	FactorCuisine    = "cuisine"
	FactorDifficulty = "difficulty"
	FactorTime       = "time"
	FactorTags       = "tags"
	FactorIngredient = "ingredients"
	FactorRating     = "rating"
)

// Factors 所有評分因子（固定順序）
var Factors = []string{FactorCuisine, FactorDifficulty, FactorTime, FactorTags, FactorIngredient, FactorRating}

// TimeBand 時間差距在 WithinMinutes 以內時給予 Bonus
type TimeBand struct {
	WithinMinutes int     `mapstructure:"within_minutes" json:"within_minutes" yaml:"within_minutes"`
	Bonus         float64 `mapstructure:"bonus" json:"bonus" yaml:"bonus"`
}

// Weights 推薦評分權重表
type Weights struct {
	Cuisine    float64    `mapstructure:"cuisine" json:"cuisine" yaml:"cuisine"`
	Difficulty float64    `mapstructure:"difficulty" json:"difficulty" yaml:"difficulty"`
	TimeBands  []TimeBand `mapstructure:"time_bands" json:"time_bands" yaml:"time_bands"`
	Tag        float64    `mapstructure:"tag" json:"tag" yaml:"tag"`
	Ingredient float64    `mapstructure:"ingredient" json:"ingredient" yaml:"ingredient"`
	Rating     float64    `mapstructure:"rating" json:"rating" yaml:"rating"`
}

// DefaultWeights 預設權重
func DefaultWeights() Weights {
	return Weights{
		Cuisine:    40,
		Difficulty: 10,
		TimeBands: []TimeBand{
			{WithinMinutes: 15, Bonus: 20},
			{WithinMinutes: 30, Bonus: 10},
			{WithinMinutes: 60, Bonus: 5},
		},
		Tag:        15,
		Ingredient: 5,
		Rating:     3,
	}
}

// Validate 權重不得為負，時間區間需遞增
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		FactorCuisine:    w.Cuisine,
		FactorDifficulty: w.Difficulty,
		FactorTags:       w.Tag,
		FactorIngredient: w.Ingredient,
		FactorRating:     w.Rating,
	} {
		if math.IsNaN(v) || v < 0 {
			return common.NewValidationError(fmt.Sprintf("weight %s must be non-negative, got %v", name, v))
		}
	}
	for i, b := range w.TimeBands {
		if b.WithinMinutes <= 0 || math.IsNaN(b.Bonus) || b.Bonus < 0 {
			return common.NewValidationError(fmt.Sprintf("time band %d is invalid", i))
		}
		if i > 0 && b.WithinMinutes <= w.TimeBands[i-1].WithinMinutes {
			return common.NewValidationError("time bands must be in ascending order")
		}
	}
	return nil
}

// timeBonus 依時間差找到第一個符合的區間
func (w Weights) timeBonus(diff float64) float64 {
	for _, b := range w.TimeBands {
		if diff < float64(b.WithinMinutes) {
			return b.Bonus
		}
	}
	return 0
}

// Score 推薦分數與各因子明細
type Score struct {
	RecipeID    string             `json:"recipe_id"`
	RecipeName  string             `json:"recipe_name"`
	Score       float64            `json:"score"`
	Breakdown   map[string]float64 `json:"rationale_breakdown"`
	RatingCount int                `json:"rating_count"`
}

// SortScores 分數遞減，同分以評分人數遞減，再以食譜 ID
func SortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.RecipeID < b.RecipeID
	})
}
