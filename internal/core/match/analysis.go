package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"recipe-matcher/internal/core/ingredient"
)

const (
	maxFuzzySuggestions  = 3
	maxCommonMissing     = 5
	minRecipesForMissing = 2
	maxSuggestions       = 3
	categoryExamples     = 3
)

// Unrecognized 無法辨識的食材與候選名稱
type Unrecognized struct {
	Ingredient  string   `json:"ingredient"`
	Suggestions []string `json:"suggestions"`
}

// Analysis 使用者食材分析結果
type Analysis struct {
	Original          []string            `json:"original"`
	Cleaned           []string            `json:"cleaned"`
	Categories        map[string][]string `json:"categories"`
	MissingCategories []string            `json:"missing_categories"`
	Substitutions     map[string][]string `json:"substitutions"`
	PantryItems       []string            `json:"pantry_items"`
	FreshItems        []string            `json:"fresh_items"`
	Unrecognized      []Unrecognized      `json:"unrecognized"`
}

// Analyzer 分析使用者提供的食材
type Analyzer struct {
	tables *ingredient.Tables
}

// NewAnalyzer 創建分析器
func NewAnalyzer(tables *ingredient.Tables) *Analyzer {
	return &Analyzer{tables: tables}
}

// Analyze 分類食材、找出缺少的必要分類、替代品與常備/新鮮食材
func (a *Analyzer) Analyze(ingredients []string) Analysis {
	analysis := Analysis{
		Original:          append([]string{}, ingredients...),
		Cleaned:           []string{},
		Categories:        map[string][]string{},
		MissingCategories: []string{},
		Substitutions:     map[string][]string{},
		PantryItems:       []string{},
		FreshItems:        []string{},
		Unrecognized:      []Unrecognized{},
	}

	seen := make(map[string]struct{})
	for _, raw := range ingredients {
		key := a.tables.Key(raw)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		analysis.Cleaned = append(analysis.Cleaned, key)

		cats := a.tables.Categories(key)
		for _, c := range cats {
			analysis.Categories[c] = append(analysis.Categories[c], key)
		}
		if subs := a.tables.Substitutes(key); len(subs) > 0 {
			analysis.Substitutions[key] = subs
		}
		if a.tables.IsPantryStaple(key) {
			analysis.PantryItems = append(analysis.PantryItems, key)
		} else {
			analysis.FreshItems = append(analysis.FreshItems, key)
		}
		if len(cats) == 0 && !a.tables.Known(key) {
			analysis.Unrecognized = append(analysis.Unrecognized, Unrecognized{
				Ingredient:  key,
				Suggestions: a.didYouMean(key),
			})
		}
	}

	for _, c := range a.tables.EssentialCategories() {
		if len(analysis.Categories[c]) == 0 {
			analysis.MissingCategories = append(analysis.MissingCategories, c)
		}
	}
	return analysis
}

// didYouMean 以模糊搜尋找出相近的已知名稱
func (a *Analyzer) didYouMean(key string) []string {
	ranks := fuzzy.RankFindNormalizedFold(key, a.tables.Vocabulary())
	sort.Sort(ranks)
	out := make([]string, 0, maxFuzzySuggestions)
	for _, r := range ranks {
		if len(out) == maxFuzzySuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// Suggest 根據排名結果建議補充的食材
func (a *Analyzer) Suggest(available []string, results []MatchResult) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		for _, line := range r.MissingIngredients {
			key := a.tables.Key(line)
			if key == "" {
				continue
			}
			if _, ok := counts[key]; !ok {
				order = append(order, key)
			}
			counts[key]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxCommonMissing {
		order = order[:maxCommonMissing]
	}

	var suggestions []string
	for _, key := range order {
		if counts[key] >= minRecipesForMissing {
			suggestions = append(suggestions, fmt.Sprintf("Consider adding '%s' - needed in %d recipes", key, counts[key]))
		}
	}

	analysis := a.Analyze(available)
	for _, c := range analysis.MissingCategories {
		examples := a.tables.CategoryKeywords(c)
		if len(examples) > categoryExamples {
			examples = examples[:categoryExamples]
		}
		suggestions = append(suggestions, fmt.Sprintf("Add %s: try %s", strings.ReplaceAll(c, "_", " "), strings.Join(examples, ", ")))
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
