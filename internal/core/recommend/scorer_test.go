package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(ingredient.MustDefaultTables(), DefaultWeights())
	require.NoError(t, err)
	return s
}

func referenceRecipe() common.Recipe {
	return common.Recipe{
		ID:               "ref",
		Name:             "Aglio e Olio",
		Cuisine:          "Italian",
		Difficulty:       "easy",
		TotalTimeMinutes: ptrInt(30),
		Tags:             []string{"Vegetarian", "quick"},
		Ingredients:      []string{"pasta", "garlic", "olive oil"},
	}
}

func TestScoreSimilar(t *testing.T) {
	s := newTestScorer(t)
	ref := referenceRecipe()
	candidates := []common.Recipe{
		ref,
		{
			ID: "mexican", Name: "Tacos", Cuisine: "Mexican", Difficulty: "hard",
			TotalTimeMinutes: ptrInt(90), Ingredients: []string{"tortillas"},
			RatingAvg: ptrFloat(5),
		},
		{ID: "bare-italian", Name: "Focaccia", Cuisine: "italian"},
		{
			ID: "close", Name: "Pasta al Pomodoro", Cuisine: "Italian", Difficulty: "Easy",
			TotalTimeMinutes: ptrInt(35), Tags: []string{"QUICK"},
			Ingredients: []string{"1 lb pasta", "2 cloves garlic", "basil"},
			RatingAvg:   ptrFloat(4.5),
		},
	}

	scores := s.ScoreSimilar(ref, candidates)
	require.Len(t, scores, 3)

	assert.Equal(t, "close", scores[0].RecipeID)
	assert.InDelta(t, 108.5, scores[0].Score, 1e-9)
	assert.Equal(t, 40.0, scores[0].Breakdown[FactorCuisine])
	assert.Equal(t, 10.0, scores[0].Breakdown[FactorDifficulty])
	assert.Equal(t, 20.0, scores[0].Breakdown[FactorTime])
	assert.Equal(t, 15.0, scores[0].Breakdown[FactorTags])
	assert.Equal(t, 10.0, scores[0].Breakdown[FactorIngredient])
	assert.InDelta(t, 13.5, scores[0].Breakdown[FactorRating], 1e-9)

	assert.Equal(t, "bare-italian", scores[1].RecipeID)
	assert.Equal(t, 40.0, scores[1].Score)

	assert.Equal(t, "mexican", scores[2].RecipeID)
	assert.Equal(t, 15.0, scores[2].Score)
	assert.Equal(t, 0.0, scores[2].Breakdown[FactorTime])
}

func TestScoreSimilarTimeBands(t *testing.T) {
	s := newTestScorer(t)
	ref := common.Recipe{ID: "ref", Name: "Ref", TotalTimeMinutes: ptrInt(60)}

	tests := []struct {
		minutes int
		want    float64
	}{
		{60, 20},
		{74, 20},
		{75, 10},
		{89, 10},
		{100, 5},
		{120, 0},
	}
	for _, tt := range tests {
		c := common.Recipe{ID: "c", Name: "C", TotalTimeMinutes: ptrInt(tt.minutes)}
		scores := s.ScoreSimilar(ref, []common.Recipe{c})
		require.Len(t, scores, 1)
		assert.Equal(t, tt.want, scores[0].Breakdown[FactorTime], "minutes %d", tt.minutes)
	}
}

func TestScoreSimilarTieBreakByPopularity(t *testing.T) {
	s := newTestScorer(t)
	ref := common.Recipe{ID: "ref", Name: "Ref", Cuisine: "Thai"}
	candidates := []common.Recipe{
		{ID: "a", Name: "A", Cuisine: "Thai", RatingCount: 3},
		{ID: "b", Name: "B", Cuisine: "Thai", RatingCount: 120},
		{ID: "c", Name: "C", Cuisine: "Thai", RatingCount: 3},
	}

	scores := s.ScoreSimilar(ref, candidates)
	ids := []string{scores[0].RecipeID, scores[1].RecipeID, scores[2].RecipeID}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestScoreForHistory(t *testing.T) {
	s := newTestScorer(t)
	liked := []common.Recipe{
		{ID: "l1", Name: "Carbonara", Cuisine: "Italian", Tags: []string{"quick"}},
		{ID: "l2", Name: "Enchiladas", Cuisine: "Mexican", Tags: []string{"quick", "spicy"}},
	}
	candidates := []common.Recipe{
		liked[0],
		{ID: "risotto", Name: "Risotto", Cuisine: "Italian", Tags: []string{"quick"}},
		{ID: "satay", Name: "Satay", Cuisine: "Thai", Tags: []string{"spicy"}, Ingredients: []string{"chicken", "peanuts"}},
		{ID: "pad-thai", Name: "Pad Thai", Cuisine: "Thai", Tags: []string{"spicy"}, Ingredients: []string{"rice noodles", "crushed peanuts"}},
	}

	scores, err := s.ScoreForHistory(liked, candidates, HistoryOptions{})
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "risotto", scores[0].RecipeID)
	assert.InDelta(t, 40*0.5+15*1.0, scores[0].Score, 1e-9)
	assert.InDelta(t, 15*0.5, scores[1].Score, 1e-9)

	scores, err = s.ScoreForHistory(liked, candidates, HistoryOptions{ExcludeIngredients: []string{"Peanut"}, Limit: 5})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "risotto", scores[0].RecipeID)

	scores, err = s.ScoreForHistory(liked, candidates, HistoryOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, scores, 1)
}

func TestScoreForHistorySingleLikedMatchesSimilar(t *testing.T) {
	s := newTestScorer(t)
	ref := referenceRecipe()
	candidates := []common.Recipe{
		{ID: "a", Name: "A", Cuisine: "Italian", Tags: []string{"quick"}, Ingredients: []string{"garlic"}, TotalTimeMinutes: ptrInt(50)},
		{ID: "b", Name: "B", Difficulty: "easy", RatingAvg: ptrFloat(3.2), RatingCount: 8},
	}

	history, err := s.ScoreForHistory([]common.Recipe{ref}, candidates, HistoryOptions{})
	require.NoError(t, err)
	assert.Equal(t, s.ScoreSimilar(ref, candidates), history)
}

func TestScoreForHistoryEdgeCases(t *testing.T) {
	s := newTestScorer(t)

	scores, err := s.ScoreForHistory(nil, []common.Recipe{referenceRecipe()}, HistoryOptions{})
	require.NoError(t, err)
	assert.Empty(t, scores)

	_, err = s.ScoreForHistory([]common.Recipe{referenceRecipe()}, nil, HistoryOptions{Limit: -1})
	assert.True(t, common.IsValidationError(err))
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.Cuisine = -1
	assert.True(t, common.IsValidationError(w.Validate()))

	w = DefaultWeights()
	w.TimeBands = []TimeBand{{WithinMinutes: 30, Bonus: 10}, {WithinMinutes: 15, Bonus: 20}}
	assert.Error(t, w.Validate())

	_, err := NewScorer(ingredient.MustDefaultTables(), w)
	assert.Error(t, err)
}

func TestCustomWeights(t *testing.T) {
	w := Weights{Tag: 1}
	s, err := NewScorer(ingredient.MustDefaultTables(), w)
	require.NoError(t, err)

	ref := common.Recipe{ID: "ref", Name: "Ref", Cuisine: "Greek", Tags: []string{"a", "b"}}
	scores := s.ScoreSimilar(ref, []common.Recipe{{ID: "c", Name: "C", Cuisine: "Greek", Tags: []string{"a", "b", "c"}}})
	require.Len(t, scores, 1)
	assert.Equal(t, 2.0, scores[0].Score)
}
