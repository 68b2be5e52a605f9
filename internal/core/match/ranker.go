package match

import (
	"fmt"
	"math"
	"sort"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

// MatchResult 單一食譜的比對結果（每次查詢產生，不持久化）
type MatchResult struct {
	RecipeID            string   `json:"recipe_id"`
	RecipeName          string   `json:"recipe_name"`
	MatchPercentage     float64  `json:"match_percentage"`
	MatchingIngredients []string `json:"matching_ingredients"`
	MissingIngredients  []string `json:"missing_ingredients"`
	ConfidenceScore     float64  `json:"confidence_score"`
	Source              string   `json:"source"`

	// trust 未封頂的信心分數，信心同為 1 時仍能依來源排序
	trust float64
}

// Options 排名參數
type Options struct {
	// Threshold 單一食材判定為符合的相似度門檻
	Threshold float64
	// MinMatchPercentage 顯示門檻，低於此百分比的結果會被過濾
	MinMatchPercentage float64
	// Limit 結果數量上限，0 表示不限制
	Limit int
}

// DefaultOptions 預設參數
func DefaultOptions() Options {
	return Options{Threshold: ingredient.DefaultThreshold}
}

// Validate 驗證參數
func (o Options) Validate() error {
	if err := ingredient.ValidateThreshold(o.Threshold); err != nil {
		return err
	}
	if !(o.MinMatchPercentage >= 0 && o.MinMatchPercentage <= 100) {
		return common.NewValidationError(fmt.Sprintf("min_match_percentage must be within [0,100], got %v", o.MinMatchPercentage))
	}
	if o.Limit < 0 {
		return common.NewValidationError(fmt.Sprintf("limit must be non-negative, got %d", o.Limit))
	}
	return nil
}

// Bonuses 信心分數的加成設定
type Bonuses struct {
	Local     float64            `mapstructure:"local" json:"local"`
	Providers map[string]float64 `mapstructure:"providers" json:"providers"`
	// NoMissing 所有食材齊全時的加成
	NoMissing float64 `mapstructure:"no_missing" json:"no_missing"`
	// FewMissing 缺少不超過 FewMissingMax 項時的加成
	FewMissing    float64 `mapstructure:"few_missing" json:"few_missing"`
	FewMissingMax int     `mapstructure:"few_missing_max" json:"few_missing_max"`
}

// DefaultBonuses 預設加成
func DefaultBonuses() Bonuses {
	return Bonuses{
		Local: 0.1,
		Providers: map[string]float64{
			"spoonacular": 0.05,
			"edamam":      0.03,
			"themealdb":   0.02,
		},
		NoMissing:     0.2,
		FewMissing:    0.1,
		FewMissingMax: 2,
	}
}

// Ranker 依食材覆蓋率為食譜排名
type Ranker struct {
	scorer  *ingredient.Scorer
	bonuses Bonuses
}

// NewRanker 創建排名器
func NewRanker(scorer *ingredient.Scorer, bonuses Bonuses) *Ranker {
	return &Ranker{scorer: scorer, bonuses: bonuses}
}

// Rank 為所有食譜計算比對結果並排序
func (r *Ranker) Rank(available []string, recipes []common.Recipe, opts Options) ([]MatchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	have := r.scorer.Terms(available)
	results := make([]MatchResult, 0, len(recipes))
	for _, recipe := range recipes {
		result := r.match(have, recipe, opts.Threshold)
		if result.MatchPercentage < opts.MinMatchPercentage {
			continue
		}
		results = append(results, result)
	}

	SortResults(results)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// MatchRecipe 計算單一食譜的比對結果
func (r *Ranker) MatchRecipe(available []string, recipe common.Recipe, threshold float64) (MatchResult, error) {
	if err := ingredient.ValidateThreshold(threshold); err != nil {
		return MatchResult{}, err
	}
	return r.match(r.scorer.Terms(available), recipe, threshold), nil
}

func (r *Ranker) match(have []ingredient.Term, recipe common.Recipe, threshold float64) MatchResult {
	result := MatchResult{
		RecipeID:            recipe.ID,
		RecipeName:          recipe.Name,
		MatchingIngredients: []string{},
		MissingIngredients:  []string{},
		Source:              recipe.SourceLabel(),
	}

	sum := 0.0
	for _, line := range recipe.Ingredients {
		need := r.scorer.Term(line)
		best := 0.0
		for _, h := range have {
			if score := r.scorer.Compare(need, h); score > best {
				best = score
				if best == ingredient.ExactScore {
					break
				}
			}
		}
		sum += best
		if best >= threshold {
			result.MatchingIngredients = append(result.MatchingIngredients, line)
		} else {
			result.MissingIngredients = append(result.MissingIngredients, line)
		}
	}

	if n := len(recipe.Ingredients); n > 0 {
		result.MatchPercentage = math.Min(100, 100*sum/float64(n))
	}
	result.trust = r.confidence(recipe, result)
	result.ConfidenceScore = math.Min(result.trust, 1.0)
	return result
}

// confidence 綜合覆蓋率、來源可信度與缺少數量（未封頂）
func (r *Ranker) confidence(recipe common.Recipe, result MatchResult) float64 {
	score := result.MatchPercentage / 100
	if recipe.IsLocal() {
		score += r.bonuses.Local
	} else {
		score += r.bonuses.Providers[recipe.Source]
	}

	missing := len(result.MissingIngredients)
	switch {
	case missing == 0:
		score += r.bonuses.NoMissing
	case missing <= r.bonuses.FewMissingMax:
		score += r.bonuses.FewMissing
	}
	return score
}

// SortResults 依比對百分比遞減排序，同分以信心分數、未封頂分數、本地優先，再以食譜 ID
func SortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchPercentage != b.MatchPercentage {
			return a.MatchPercentage > b.MatchPercentage
		}
		if a.ConfidenceScore != b.ConfidenceScore {
			return a.ConfidenceScore > b.ConfidenceScore
		}
		if a.trust != b.trust {
			return a.trust > b.trust
		}
		if la, lb := a.Source == common.SourceLocal, b.Source == common.SourceLocal; la != lb {
			return la
		}
		return a.RecipeID < b.RecipeID
	})
}
