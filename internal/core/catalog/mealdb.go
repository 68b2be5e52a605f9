package catalog

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MealDBName TheMealDB 提供者名稱
const MealDBName = "themealdb"

// mealDBMaxIngredients TheMealDB 每道菜最多 20 項食材
const mealDBMaxIngredients = 20

// MealDBProvider TheMealDB 線上食譜提供者
type MealDBProvider struct {
	client     *resty.Client
	maxLookups int
}

// mealList filter/lookup 回應
type mealList struct {
	Meals []map[string]interface{} `json:"meals"`
}

// NewMealDBProvider 創建 TheMealDB 提供者
func NewMealDBProvider(cfg config.OnlineConfig) *MealDBProvider {
	base := strings.TrimRight(cfg.MealDBBaseURL, "/")
	if cfg.MealDBAPIKey != "" {
		base += "/" + cfg.MealDBAPIKey
	}
	client := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	maxLookups := cfg.MaxLookups
	if maxLookups <= 0 {
		maxLookups = 10
	}
	return &MealDBProvider{client: client, maxLookups: maxLookups}
}

// Name 提供者名稱
func (p *MealDBProvider) Name() string {
	return MealDBName
}

// Search 依食材篩選菜色，再逐一查詢完整食譜
func (p *MealDBProvider) Search(ctx context.Context, ingredients []string, limit int) ([]common.Recipe, error) {
	start := time.Now()
	ids, err := p.filter(ctx, ingredients)
	if err != nil {
		common.LogProviderCall(MealDBName, time.Since(start), 0, err)
		return nil, err
	}

	n := p.maxLookups
	if limit > 0 && limit < n {
		n = limit
	}
	if len(ids) > n {
		ids = ids[:n]
	}

	recipes := make([]common.Recipe, len(ids))
	found := make([]bool, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, ok, err := p.lookup(gctx, id)
			if err != nil {
				return err
			}
			recipes[i], found[i] = r, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		common.LogProviderCall(MealDBName, time.Since(start), 0, err)
		return nil, err
	}

	out := make([]common.Recipe, 0, len(recipes))
	for i, r := range recipes {
		if found[i] {
			out = append(out, r)
		}
	}
	common.LogProviderCall(MealDBName, time.Since(start), len(out), nil)
	return out, nil
}

// filter 對每項食材呼叫 filter.php，依命中次數排序菜色 ID
func (p *MealDBProvider) filter(ctx context.Context, ingredients []string) ([]string, error) {
	hits := make(map[string]int)
	for _, ing := range ingredients {
		q := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(ing)), " ", "_")
		if q == "" {
			continue
		}
		var list mealList
		if err := p.get(ctx, "/filter.php", "i", q, &list); err != nil {
			return nil, err
		}
		for _, m := range list.Meals {
			if id := str(m, "idMeal"); id != "" {
				hits[id]++
			}
		}
	}

	ids := make([]string, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if hits[ids[i]] != hits[ids[j]] {
			return hits[ids[i]] > hits[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

// lookup 查詢單一菜色詳細資料
func (p *MealDBProvider) lookup(ctx context.Context, id string) (common.Recipe, bool, error) {
	var list mealList
	if err := p.get(ctx, "/lookup.php", "i", id, &list); err != nil {
		return common.Recipe{}, false, err
	}
	if len(list.Meals) == 0 {
		common.LogWarn("Meal not found", zap.String("provider", MealDBName), zap.String("id", id))
		return common.Recipe{}, false, nil
	}
	return mealToRecipe(list.Meals[0]), true, nil
}

func (p *MealDBProvider) get(ctx context.Context, path, param, value string, out *mealList) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam(param, value).
		Get(path)
	if err != nil {
		return common.ErrProviderError.Wrap(fmt.Errorf("failed to send request to %s: %w", MealDBName, err))
	}
	if resp.StatusCode() != http.StatusOK {
		return common.ErrProviderError.Wrap(fmt.Errorf("%s returned status %d", MealDBName, resp.StatusCode()))
	}
	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return common.ErrProviderError.Wrap(fmt.Errorf("failed to parse %s response: %w", MealDBName, err))
	}
	return nil
}

// mealToRecipe 將 TheMealDB 菜色轉為食譜
func mealToRecipe(m map[string]interface{}) common.Recipe {
	r := common.Recipe{
		ID:      MealDBName + ":" + str(m, "idMeal"),
		Name:    str(m, "strMeal"),
		Cuisine: strings.ToLower(str(m, "strArea")),
		Source:  MealDBName,
	}

	for i := 1; i <= mealDBMaxIngredients; i++ {
		name := str(m, "strIngredient"+strconv.Itoa(i))
		if name == "" {
			continue
		}
		line := name
		if measure := str(m, "strMeasure"+strconv.Itoa(i)); measure != "" {
			line = measure + " " + name
		}
		r.Ingredients = append(r.Ingredients, line)
	}

	var tags []string
	if c := str(m, "strCategory"); c != "" {
		tags = append(tags, strings.ToLower(c))
	}
	for _, t := range strings.Split(str(m, "strTags"), ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	r.Tags = common.DedupeStrings(tags)
	return r
}

// str 取得字串欄位，null 或非字串視為空
func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
