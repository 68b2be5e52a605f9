package recipe

import (
	"context"
	"errors"
	"testing"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/core/shopping"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testRecipes() []common.Recipe {
	return []common.Recipe{
		{
			ID: "pasta", Name: "Garlic Pasta", Cuisine: "italian", Difficulty: "easy",
			Ingredients: []string{"200g pasta", "3 cloves garlic", "2 tbsp olive oil", "salt"},
			Tags:        []string{"quick", "vegetarian"},
			RatingAvg: ptr(4.5), RatingCount: 20, TotalTimeMinutes: ptr(20),
		},
		{
			ID: "carbonara", Name: "Carbonara", Cuisine: "italian", Difficulty: "medium",
			Ingredients: []string{"200g spaghetti", "2 eggs", "100g bacon", "50g parmesan"},
			Tags:        []string{"quick"},
			RatingAvg: ptr(4.8), RatingCount: 50, TotalTimeMinutes: ptr(25),
		},
		{
			ID: "curry", Name: "Chicken Curry", Cuisine: "indian", Difficulty: "medium",
			Ingredients: []string{"500g chicken breast", "1 onion", "2 tbsp curry powder", "1 cup rice"},
			Tags:        []string{"spicy"},
			RatingAvg: ptr(4.2), RatingCount: 10, TotalTimeMinutes: ptr(60),
		},
	}
}

type fakeProvider struct {
	name    string
	recipes []common.Recipe
	err     error
	limit   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, ingredients []string, limit int) ([]common.Recipe, error) {
	p.limit = limit
	return p.recipes, p.err
}

func newTestService(t *testing.T, providers ...catalog.Provider) *Service {
	t.Helper()
	cfg := config.Default()
	engine, err := NewEngine(cfg, ingredient.MustDefaultTables())
	require.NoError(t, err)
	cat, err := catalog.New(testRecipes())
	require.NoError(t, err)
	return NewService(cfg, engine, cat, providers)
}

func TestSearchLocal(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Search.Search(context.Background(), SearchRequest{
		Ingredients: []string{"pasta", "garlic", "olive oil", "salt"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Matches)

	top := res.Matches[0]
	assert.Equal(t, "pasta", top.RecipeID)
	assert.Equal(t, 100.0, top.MatchPercentage)
	assert.Equal(t, "local", top.Source)
	assert.Empty(t, res.UsedOnlineAPIs)
	assert.Equal(t, len(res.Matches), res.TotalFound)
}

func TestSearchAddsOnlineResults(t *testing.T) {
	online := &fakeProvider{name: "themealdb", recipes: []common.Recipe{
		{ID: "themealdb:1", Name: "Garlic Noodles", Ingredients: []string{"pasta", "garlic"}, Source: "themealdb"},
	}}
	broken := &fakeProvider{name: "edamam", err: errors.New("unavailable")}
	svc := newTestService(t, online, broken)

	res, err := svc.Search.Search(context.Background(), SearchRequest{
		Ingredients:   []string{"pasta", "garlic"},
		IncludeOnline: true,
		MaxResults:    ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"themealdb"}, res.UsedOnlineAPIs)
	assert.Greater(t, online.limit, 0)

	var found bool
	for _, m := range res.Matches {
		if m.RecipeID == "themealdb:1" {
			found = true
			assert.Equal(t, "online:themealdb", m.Source)
			assert.Equal(t, 100.0, m.MatchPercentage)
		}
	}
	assert.True(t, found)
	assert.Equal(t, "themealdb:1", res.Matches[0].RecipeID, "full coverage online recipe ranks first")
}

func TestSearchSkipsOnlineWhenNotRequested(t *testing.T) {
	online := &fakeProvider{name: "themealdb"}
	svc := newTestService(t, online)

	res, err := svc.Search.Search(context.Background(), SearchRequest{Ingredients: []string{"garlic"}})
	require.NoError(t, err)
	assert.Empty(t, res.UsedOnlineAPIs)
	assert.Equal(t, 0, online.limit)
}

func TestSearchLimitsResults(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Search.Search(context.Background(), SearchRequest{
		Ingredients:        []string{"pasta", "garlic", "eggs", "chicken breast", "onion"},
		MinMatchPercentage: ptr(0.0),
		MaxResults:         ptr(1),
	})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 1)
	assert.Equal(t, 3, res.TotalFound)
}

func TestSearchValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []SearchRequest{
		{Ingredients: []string{" ", ""}},
		{Ingredients: []string{"egg"}, Threshold: ptr(1.5)},
		{Ingredients: []string{"egg"}, MinMatchPercentage: ptr(-1.0)},
		{Ingredients: []string{"egg"}, MaxResults: ptr(0)},
	}
	for _, req := range cases {
		_, err := svc.Search.Search(ctx, req)
		assert.True(t, common.IsValidationError(err), "request %+v", req)
	}
}

func TestIngredientParse(t *testing.T) {
	svc := newTestService(t)

	items, err := svc.Ingredients.Parse(ParseRequest{
		Lines:              []string{"1 1/2 cups all-purpose flour", "2 cloves garlic, minced", "salt to taste"},
		ServingsMultiplier: ptr(2.0),
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NotNil(t, items[0].Quantity)
	assert.InDelta(t, 3.0, *items[0].Quantity, 1e-9)
	assert.Equal(t, "cups", items[0].Unit)
	assert.Equal(t, "cup", items[0].CanonicalUnit)
	assert.Equal(t, "grains", items[0].Category)

	require.NotNil(t, items[1].Quantity)
	assert.InDelta(t, 4.0, *items[1].Quantity, 1e-9)
	assert.Equal(t, "clove", items[1].CanonicalUnit)
	assert.Equal(t, "garlic", items[1].Key)

	assert.Nil(t, items[2].Quantity)
	assert.Equal(t, "salt", items[2].Key)

	_, err = svc.Ingredients.Parse(ParseRequest{Lines: []string{"1 egg"}, ServingsMultiplier: ptr(0.0)})
	assert.True(t, common.IsValidationError(err))
}

func TestSimilar(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Recommendations.Similar("pasta", nil)
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, "carbonara", res.Recommendations[0].RecipeID)
	for _, s := range res.Recommendations {
		assert.NotEqual(t, "pasta", s.RecipeID)
	}

	res, err = svc.Recommendations.Similar("pasta", ptr(1))
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 1)

	_, err = svc.Recommendations.Similar("missing", nil)
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)

	_, err = svc.Recommendations.Similar("pasta", ptr(-1))
	assert.True(t, common.IsValidationError(err))
}

func TestForHistory(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Recommendations.ForHistory(HistoryRequest{
		LikedIDs:           []string{"pasta"},
		ExcludeIngredients: []string{"bacon"},
	})
	require.NoError(t, err)
	for _, s := range res.Recommendations {
		assert.NotEqual(t, "carbonara", s.RecipeID)
		assert.NotEqual(t, "pasta", s.RecipeID)
	}

	_, err = svc.Recommendations.ForHistory(HistoryRequest{LikedIDs: []string{"nope"}})
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)

	res, err = svc.Recommendations.ForHistory(HistoryRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
}

func TestShoppingBuild(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Shopping.Build(ShoppingRequest{
		RecipeIDs: []string{"pasta", "carbonara"},
		Pantry:    []string{"salt"},
		Format:    "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, shopping.FormatCSV, res.Format)
	assert.Contains(t, res.List.ExcludedByPantry, "salt")
	assert.NotEmpty(t, res.List.Find("garlic"))

	_, err = svc.Shopping.Build(ShoppingRequest{RecipeIDs: []string{"pasta", "ghost"}})
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)

	_, err = svc.Shopping.Build(ShoppingRequest{RecipeIDs: []string{"pasta"}, Format: "pdf"})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Shopping.Build(ShoppingRequest{RecipeIDs: []string{"pasta"}, ServingsMultiplier: ptr(-2.0)})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Shopping.Build(ShoppingRequest{})
	assert.True(t, common.IsValidationError(err))
}

func TestNewProviders(t *testing.T) {
	cfg := config.Default()
	assert.Empty(t, NewProviders(cfg.Catalog, nil))

	cfg.Catalog.Online.Enabled = true
	providers := NewProviders(cfg.Catalog, nil)
	require.Len(t, providers, 1)
	assert.Equal(t, catalog.MealDBName, providers[0].Name())
}
