package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

// HistoryOptions 依使用者歷史推薦的參數
type HistoryOptions struct {
	// ExcludeIngredients 含有這些食材（如過敏原）的候選食譜會被排除
	ExcludeIngredients []string
	// Limit 結果數量上限，0 表示不限制
	Limit int
}

// Scorer 多因子推薦評分器
type Scorer struct {
	tables  *ingredient.Tables
	weights Weights
}

// NewScorer 創建推薦評分器
func NewScorer(tables *ingredient.Tables, weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{tables: tables, weights: weights}, nil
}

// Weights 返回使用中的權重
func (s *Scorer) Weights() Weights {
	return s.weights
}

// profile 一組食譜的聚合特徵，各值為出現比例
type profile struct {
	ids          map[string]struct{}
	cuisines     map[string]float64
	difficulties map[string]float64
	tags         map[string]float64
	ingredients  map[string]float64
	minutes      *float64
}

// ScoreSimilar 以參考食譜為基準為候選食譜評分，參考食譜本身不列入
func (s *Scorer) ScoreSimilar(reference common.Recipe, candidates []common.Recipe) []Score {
	p := s.profileOf([]common.Recipe{reference})
	return s.scoreAll(p, candidates, nil)
}

// ScoreForHistory 以使用者喜歡的食譜聚合特徵為基準評分
func (s *Scorer) ScoreForHistory(liked []common.Recipe, candidates []common.Recipe, opts HistoryOptions) ([]Score, error) {
	if opts.Limit < 0 {
		return nil, common.NewValidationError(fmt.Sprintf("limit must be non-negative, got %d", opts.Limit))
	}
	if len(liked) == 0 {
		return []Score{}, nil
	}

	var excluded []string
	for _, e := range opts.ExcludeIngredients {
		if key := s.tables.Normalize(e); key != "" {
			excluded = append(excluded, key)
		}
	}

	scores := s.scoreAll(s.profileOf(liked), candidates, excluded)
	if opts.Limit > 0 && len(scores) > opts.Limit {
		scores = scores[:opts.Limit]
	}
	return scores, nil
}

func (s *Scorer) scoreAll(p profile, candidates []common.Recipe, excluded []string) []Score {
	scores := make([]Score, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := p.ids[c.ID]; skip {
			continue
		}
		keys := s.ingredientKeys(c)
		if containsExcluded(keys, excluded) {
			continue
		}
		scores = append(scores, s.score(p, c, keys))
	}
	SortScores(scores)
	return scores
}

func (s *Scorer) score(p profile, c common.Recipe, keys []string) Score {
	w := s.weights
	breakdown := map[string]float64{
		FactorCuisine:    0,
		FactorDifficulty: 0,
		FactorTime:       0,
		FactorTags:       0,
		FactorIngredient: 0,
		FactorRating:     0,
	}

	if cuisine := fold(c.Cuisine); cuisine != "" {
		breakdown[FactorCuisine] = w.Cuisine * p.cuisines[cuisine]
	}
	if difficulty := fold(c.Difficulty); difficulty != "" {
		breakdown[FactorDifficulty] = w.Difficulty * p.difficulties[difficulty]
	}
	if p.minutes != nil && c.TotalTimeMinutes != nil {
		breakdown[FactorTime] = w.timeBonus(math.Abs(float64(*c.TotalTimeMinutes) - *p.minutes))
	}
	for _, tag := range uniqueFolded(c.Tags) {
		breakdown[FactorTags] += w.Tag * p.tags[tag]
	}
	for _, key := range keys {
		breakdown[FactorIngredient] += w.Ingredient * p.ingredients[key]
	}
	breakdown[FactorRating] = w.Rating * c.Rating()

	total := 0.0
	for _, f := range Factors {
		total += breakdown[f]
	}
	return Score{
		RecipeID:    c.ID,
		RecipeName:  c.Name,
		Score:       common.Round(total, 6),
		Breakdown:   breakdown,
		RatingCount: c.RatingCount,
	}
}

func (s *Scorer) profileOf(recipes []common.Recipe) profile {
	p := profile{
		ids:          make(map[string]struct{}, len(recipes)),
		cuisines:     make(map[string]float64),
		difficulties: make(map[string]float64),
		tags:         make(map[string]float64),
		ingredients:  make(map[string]float64),
	}
	share := 1 / float64(len(recipes))

	var minutes []float64
	for _, r := range recipes {
		p.ids[r.ID] = struct{}{}
		if c := fold(r.Cuisine); c != "" {
			p.cuisines[c] += share
		}
		if d := fold(r.Difficulty); d != "" {
			p.difficulties[d] += share
		}
		for _, tag := range uniqueFolded(r.Tags) {
			p.tags[tag] += share
		}
		for _, key := range s.ingredientKeys(r) {
			p.ingredients[key] += share
		}
		if r.TotalTimeMinutes != nil {
			minutes = append(minutes, float64(*r.TotalTimeMinutes))
		}
	}
	if m, ok := median(minutes); ok {
		p.minutes = &m
	}
	return p
}

// ingredientKeys 返回去重後的標準化食材鍵
func (s *Scorer) ingredientKeys(r common.Recipe) []string {
	seen := make(map[string]struct{}, len(r.Ingredients))
	keys := make([]string, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		key := s.tables.Key(line)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func containsExcluded(keys, excluded []string) bool {
	for _, e := range excluded {
		for _, k := range keys {
			if strings.Contains(k, e) {
				return true
			}
		}
	}
	return false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func uniqueFolded(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		f := fold(v)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
