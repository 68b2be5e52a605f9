package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lookupBody = `{"meals":[{
	"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole","strCategory":"Chicken","strArea":"Japanese",
	"strTags":"Meat, Casserole",
	"strIngredient1":"soy sauce","strMeasure1":"3/4 cup",
	"strIngredient2":"chicken breasts","strMeasure2":"2",
	"strIngredient3":"","strMeasure3":"",
	"strIngredient4":null,"strMeasure4":null
}]}`

func newMealDBServer(t *testing.T, lookups *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/1/filter.php", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("i") {
		case "chicken_breast":
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"},{"idMeal":"52795","strMeal":"Chicken Handi"}]}`))
		case "soy_sauce":
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}]}`))
		default:
			_, _ = w.Write([]byte(`{"meals":null}`))
		}
	})
	mux.HandleFunc("/1/lookup.php", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(lookups, 1)
		if r.URL.Query().Get("i") == "52772" {
			_, _ = w.Write([]byte(lookupBody))
			return
		}
		_, _ = w.Write([]byte(`{"meals":null}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMealDBProviderSearch(t *testing.T) {
	var lookups int32
	srv := newMealDBServer(t, &lookups)
	p := NewMealDBProvider(config.OnlineConfig{MealDBBaseURL: srv.URL, MealDBAPIKey: "1", Timeout: 2 * time.Second, MaxLookups: 5})

	recipes, err := p.Search(context.Background(), []string{"Chicken Breast", "soy sauce"}, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&lookups))

	require.Len(t, recipes, 1)
	r := recipes[0]
	assert.Equal(t, "themealdb:52772", r.ID)
	assert.Equal(t, "Teriyaki Chicken Casserole", r.Name)
	assert.Equal(t, "japanese", r.Cuisine)
	assert.Equal(t, []string{"3/4 cup soy sauce", "2 chicken breasts"}, r.Ingredients)
	assert.Equal(t, []string{"chicken", "meat", "casserole"}, r.Tags)
	assert.Equal(t, "online:themealdb", r.SourceLabel())
}

func TestMealDBProviderRespectsLimit(t *testing.T) {
	var lookups int32
	srv := newMealDBServer(t, &lookups)
	p := NewMealDBProvider(config.OnlineConfig{MealDBBaseURL: srv.URL, MealDBAPIKey: "1", MaxLookups: 5})

	recipes, err := p.Search(context.Background(), []string{"chicken breast", "soy sauce"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&lookups))
	require.Len(t, recipes, 1)
	assert.Equal(t, "themealdb:52772", recipes[0].ID)
}

func TestMealDBProviderNoMatches(t *testing.T) {
	var lookups int32
	srv := newMealDBServer(t, &lookups)
	p := NewMealDBProvider(config.OnlineConfig{MealDBBaseURL: srv.URL, MealDBAPIKey: "1"})

	recipes, err := p.Search(context.Background(), []string{"dragonfruit"}, 5)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Equal(t, int32(0), atomic.LoadInt32(&lookups))
}

func TestMealDBProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	p := NewMealDBProvider(config.OnlineConfig{MealDBBaseURL: srv.URL})

	_, err := p.Search(context.Background(), []string{"egg"}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrProviderError)
}
