package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

func newTestRanker(t *testing.T) *Ranker {
	t.Helper()
	tables, err := ingredient.DefaultTables()
	require.NoError(t, err)
	return NewRanker(ingredient.NewScorer(tables), DefaultBonuses())
}

func pastaRecipe() common.Recipe {
	return common.Recipe{
		ID:          "pasta-pomodoro",
		Name:        "Pasta Pomodoro",
		Ingredients: []string{"pasta", "tomatoes", "garlic", "olive oil", "basil"},
	}
}

func TestRankPartialMatch(t *testing.T) {
	r := newTestRanker(t)

	results, err := r.Rank([]string{"pasta", "garlic", "basil"}, []common.Recipe{pastaRecipe()}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "pasta-pomodoro", got.RecipeID)
	assert.Equal(t, []string{"pasta", "garlic", "basil"}, got.MatchingIngredients)
	assert.Equal(t, []string{"tomatoes", "olive oil"}, got.MissingIngredients)
	assert.InDelta(t, 60.0, got.MatchPercentage, 1e-9)
	assert.Equal(t, common.SourceLocal, got.Source)
	// 0.6 + 本地 0.1 + 缺少兩項 0.1
	assert.InDelta(t, 0.8, got.ConfidenceScore, 1e-9)
}

func TestRankPartitionsIngredients(t *testing.T) {
	r := newTestRanker(t)
	recipes := []common.Recipe{
		pastaRecipe(),
		{ID: "omelette", Name: "Omelette", Ingredients: []string{"3 eggs", "1/4 cup milk", "salt", "salt", "chives"}},
		{ID: "stir-fry", Name: "Stir Fry", Ingredients: []string{"chicken thighs", "green onions", "soy sauce", "rice"}},
	}
	available := []string{"eggs", "chicken breast", "scallion", "tamari", "milk"}

	results, err := r.Rank(available, recipes, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, len(recipes))

	byID := make(map[string]common.Recipe)
	for _, rec := range recipes {
		byID[rec.ID] = rec
	}
	for _, res := range results {
		recipe := byID[res.RecipeID]
		combined := append(append([]string{}, res.MatchingIngredients...), res.MissingIngredients...)
		assert.ElementsMatch(t, recipe.Ingredients, combined, "recipe %s", res.RecipeID)
		assert.GreaterOrEqual(t, res.MatchPercentage, 0.0)
		assert.LessOrEqual(t, res.MatchPercentage, 100.0)
		assert.LessOrEqual(t, res.ConfidenceScore, 1.0)
	}
}

func TestRankFullAndEmptyRecipes(t *testing.T) {
	r := newTestRanker(t)
	recipes := []common.Recipe{
		{ID: "empty", Name: "Nothing", Ingredients: nil},
		{ID: "full", Name: "Toast", Ingredients: []string{"2 slices bread", "1 tbsp butter"}},
	}

	results, err := r.Rank([]string{"bread", "butter"}, recipes, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "full", results[0].RecipeID)
	assert.Equal(t, 100.0, results[0].MatchPercentage)
	assert.Equal(t, 1.0, results[0].ConfidenceScore)

	assert.Equal(t, "empty", results[1].RecipeID)
	assert.Equal(t, 0.0, results[1].MatchPercentage)
	assert.Empty(t, results[1].MatchingIngredients)
	assert.Empty(t, results[1].MissingIngredients)
}

func TestRankOnlineSourceBonus(t *testing.T) {
	r := newTestRanker(t)
	local := common.Recipe{ID: "a", Name: "Local", Ingredients: []string{"rice", "beans", "corn", "lime"}}
	online := local
	online.ID = "b"
	online.Source = "themealdb"

	results, err := r.Rank([]string{"rice", "beans"}, []common.Recipe{online, local}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].RecipeID)
	assert.Equal(t, "online:themealdb", results[1].Source)
	assert.InDelta(t, 0.5+0.1+0.1, results[0].ConfidenceScore, 1e-9)
	assert.InDelta(t, 0.5+0.02+0.1, results[1].ConfidenceScore, 1e-9)
}

func TestRankLocalBeatsOnlineAtFullMatch(t *testing.T) {
	r := newTestRanker(t)
	local := common.Recipe{ID: "z-local", Name: "Rice and Beans", Ingredients: []string{"rice", "beans"}}
	online := common.Recipe{ID: "a-online", Name: "Rice and Beans", Ingredients: []string{"rice", "beans"}, Source: "themealdb"}

	results, err := r.Rank([]string{"rice", "beans"}, []common.Recipe{online, local}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1.0, results[0].ConfidenceScore)
	assert.Equal(t, 1.0, results[1].ConfidenceScore)
	assert.Equal(t, "z-local", results[0].RecipeID)
	assert.Equal(t, "a-online", results[1].RecipeID)

	// 合併後重新排序結果不變
	merged := []MatchResult{results[1], results[0]}
	SortResults(merged)
	assert.Equal(t, "z-local", merged[0].RecipeID)
}

func TestSortResultsPrefersLocalWithoutScores(t *testing.T) {
	results := []MatchResult{
		{RecipeID: "a", MatchPercentage: 50, ConfidenceScore: 0.7, Source: "online:edamam"},
		{RecipeID: "b", MatchPercentage: 50, ConfidenceScore: 0.7, Source: common.SourceLocal},
	}
	SortResults(results)
	assert.Equal(t, "b", results[0].RecipeID)
}

func TestRankCutoffAndLimit(t *testing.T) {
	r := newTestRanker(t)
	recipes := []common.Recipe{
		pastaRecipe(),
		{ID: "salad", Name: "Salad", Ingredients: []string{"lettuce", "cucumber", "tomatoes", "feta"}},
		{ID: "garlic-bread", Name: "Garlic Bread", Ingredients: []string{"bread", "garlic"}},
	}
	available := []string{"pasta", "garlic", "basil", "bread"}

	opts := DefaultOptions()
	opts.MinMatchPercentage = 20
	results, err := r.Rank(available, recipes, opts)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "garlic-bread", results[0].RecipeID)
	assert.Equal(t, "pasta-pomodoro", results[1].RecipeID)

	opts.Limit = 1
	results, err = r.Rank(available, recipes, opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "garlic-bread", results[0].RecipeID)
}

func TestRankValidation(t *testing.T) {
	r := newTestRanker(t)

	for _, opts := range []Options{
		{Threshold: 1.2},
		{Threshold: -0.5},
		{Threshold: 0.7, MinMatchPercentage: 120},
		{Threshold: 0.7, Limit: -1},
	} {
		_, err := r.Rank([]string{"pasta"}, []common.Recipe{pastaRecipe()}, opts)
		require.Error(t, err)
		assert.True(t, common.IsValidationError(err))
	}

	_, err := r.MatchRecipe([]string{"pasta"}, pastaRecipe(), 2)
	assert.True(t, common.IsValidationError(err))
}

func TestMatchRecipeThreshold(t *testing.T) {
	r := newTestRanker(t)
	recipe := common.Recipe{ID: "x", Name: "X", Ingredients: []string{"chicken breast"}}

	res, err := r.MatchRecipe([]string{"chicken"}, recipe, 0.7)
	require.NoError(t, err)
	assert.Equal(t, []string{"chicken breast"}, res.MatchingIngredients)
	assert.InDelta(t, 80.0, res.MatchPercentage, 1e-9)

	res, err = r.MatchRecipe([]string{"chicken"}, recipe, 0.9)
	require.NoError(t, err)
	assert.Equal(t, []string{"chicken breast"}, res.MissingIngredients)
	assert.InDelta(t, 80.0, res.MatchPercentage, 1e-9)
}

func TestSortResultsTieBreak(t *testing.T) {
	results := []MatchResult{
		{RecipeID: "recipe_A", MatchPercentage: 80, ConfidenceScore: 0.9},
		{RecipeID: "recipe_B", MatchPercentage: 45, ConfidenceScore: 0.5},
		{RecipeID: "recipe_C", MatchPercentage: 80, ConfidenceScore: 0.6},
	}
	SortResults(results)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.RecipeID
	}
	assert.Equal(t, []string{"recipe_A", "recipe_C", "recipe_B"}, ids)
}
