package shopping

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

// Options 購物清單參數
type Options struct {
	ServingsMultiplier   float64  `json:"servings_multiplier"`
	Pantry               []string `json:"pantry"`
	CombineDuplicates    bool     `json:"combine_duplicates"`
	IncludeSubstitutions bool     `json:"include_substitutions"`
}

// DefaultOptions 預設參數
func DefaultOptions() Options {
	return Options{
		ServingsMultiplier:   1.0,
		CombineDuplicates:    true,
		IncludeSubstitutions: true,
	}
}

// Validate 份量倍數必須為正的有限數
func (o Options) Validate() error {
	m := o.ServingsMultiplier
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return common.NewValidationError(fmt.Sprintf("servings_multiplier must be a positive number, got %v", m))
	}
	return nil
}

// Item 購物清單項目
type Item struct {
	Key                 string   `json:"key"`
	Quantity            *float64 `json:"quantity,omitempty"`
	Unit                string   `json:"unit,omitempty"`
	Category            string   `json:"category"`
	ContributingRecipes []string `json:"contributing_recipes"`
	Note                string   `json:"note,omitempty"`
	Substitutions       []string `json:"substitutions,omitempty"`

	amount *big.Rat
}

// Amount 精確數量
func (i Item) Amount() *big.Rat {
	if i.amount == nil {
		return nil
	}
	return new(big.Rat).Set(i.amount)
}

// Category 單一分類及其項目
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// List 購物清單，分類依首次出現順序
type List struct {
	Categories       []Category `json:"categories"`
	ExcludedByPantry []string   `json:"excluded_by_pantry"`
	TotalItems       int        `json:"total_items"`
}

// ByCategory 以分類名稱為鍵返回項目
func (l *List) ByCategory() map[string][]Item {
	out := make(map[string][]Item, len(l.Categories))
	for _, c := range l.Categories {
		out[c.Name] = c.Items
	}
	return out
}

// Find 返回指定鍵的所有項目
func (l *List) Find(key string) []Item {
	var out []Item
	for _, c := range l.Categories {
		for _, it := range c.Items {
			if it.Key == key {
				out = append(out, it)
			}
		}
	}
	return out
}

// entry 單一食材行解析後的中間結果
type entry struct {
	key      string
	amount   *big.Rat
	unit     string
	unitKey  string
	recipe   string
	sequence int
}

// group 同鍵同單位的彙總
type group struct {
	key      string
	unit     string
	unitKey  string
	amount   *big.Rat
	recipes  []string
	sequence int
}

// Aggregator 將多份食譜的食材彙總為購物清單
type Aggregator struct {
	tables *ingredient.Tables
}

// NewAggregator 創建彙總器
func NewAggregator(tables *ingredient.Tables) *Aggregator {
	return &Aggregator{tables: tables}
}

// Build 縮放、排除常備品、合併同單位數量並分類
func (a *Aggregator) Build(recipes []common.Recipe, opts Options) (*List, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var pantry []string
	for _, p := range opts.Pantry {
		if key := a.tables.Normalize(p); key != "" {
			pantry = append(pantry, key)
		}
	}

	list := &List{Categories: []Category{}, ExcludedByPantry: []string{}}
	excluded := make(map[string]struct{})
	var entries []entry
	for _, recipe := range recipes {
		for _, line := range recipe.Ingredients {
			parsed := a.tables.ParseQuantityAndUnit(line).Scale(opts.ServingsMultiplier)
			key := a.tables.Normalize(parsed.Remainder)
			if key == "" {
				continue
			}
			if inPantry(key, pantry) {
				if _, seen := excluded[key]; !seen {
					excluded[key] = struct{}{}
					list.ExcludedByPantry = append(list.ExcludedByPantry, key)
				}
				continue
			}
			entries = append(entries, entry{
				key:      key,
				amount:   parsed.Amount,
				unit:     parsed.Unit,
				unitKey:  a.unitKey(parsed.Unit),
				recipe:   recipe.DisplayName(),
				sequence: len(entries),
			})
		}
	}

	groups := a.group(entries, opts.CombineDuplicates)
	a.fill(list, groups, opts)
	return list, nil
}

func (a *Aggregator) unitKey(unit string) string {
	if unit == "" {
		return ""
	}
	if c, ok := a.tables.CanonicalUnit(unit); ok {
		return c
	}
	return strings.ToLower(unit)
}

// group 依鍵與標準單位分組；不合併時每行各自成組
func (a *Aggregator) group(entries []entry, combine bool) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, e := range entries {
		id := e.key + "\x00" + e.unitKey
		if combine {
			if g, ok := index[id]; ok {
				g.add(e)
				continue
			}
		}
		g := &group{key: e.key, unit: e.unit, unitKey: e.unitKey, sequence: e.sequence}
		g.add(e)
		groups = append(groups, g)
		if combine {
			index[id] = g
		}
	}
	return groups
}

func (g *group) add(e entry) {
	if e.amount != nil {
		if g.amount == nil {
			g.amount = new(big.Rat)
		}
		g.amount.Add(g.amount, e.amount)
	}
	for _, r := range g.recipes {
		if r == e.recipe {
			return
		}
	}
	g.recipes = append(g.recipes, e.recipe)
}

func (a *Aggregator) fill(list *List, groups []*group, opts Options) {
	byKey := make(map[string][]*group)
	for _, g := range groups {
		byKey[g.key] = append(byKey[g.key], g)
	}

	catIndex := make(map[string]int)
	for _, g := range groups {
		item := Item{
			Key:                 g.key,
			Unit:                g.unit,
			Category:            a.tables.Category(g.key),
			ContributingRecipes: g.recipes,
			amount:              g.amount,
		}
		if g.amount != nil {
			q, _ := g.amount.Float64()
			item.Quantity = &q
		}
		if opts.CombineDuplicates {
			item.Note = conflictNote(g, byKey[g.key])
		}
		if opts.IncludeSubstitutions {
			item.Substitutions = a.tables.Substitutes(g.key)
		}

		i, ok := catIndex[item.Category]
		if !ok {
			i = len(list.Categories)
			catIndex[item.Category] = i
			list.Categories = append(list.Categories, Category{Name: item.Category})
		}
		list.Categories[i].Items = append(list.Categories[i].Items, item)
		list.TotalItems++
	}

	for _, c := range list.Categories {
		sort.SliceStable(c.Items, func(i, j int) bool {
			if c.Items[i].Key != c.Items[j].Key {
				return c.Items[i].Key < c.Items[j].Key
			}
			return c.Items[i].Unit < c.Items[j].Unit
		})
	}
}

// conflictNote 同一食材出現不同單位時，註明其他單位的數量
func conflictNote(self *group, siblings []*group) string {
	var others []string
	for _, g := range siblings {
		if g == self || g.unitKey == self.unitKey {
			continue
		}
		others = append(others, formatAmount(g.amount, g.unit))
	}
	if len(others) == 0 {
		return ""
	}
	return "also needed: " + strings.Join(others, "; ") + " (units differ, not combined)"
}

// FormatQuantity 格式化數量（去除多餘小數）
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(common.Round(q, 3), 'f', -1, 64)
}

func formatAmount(amount *big.Rat, unit string) string {
	var parts []string
	if amount != nil {
		f, _ := amount.Float64()
		parts = append(parts, FormatQuantity(f))
	}
	if unit != "" {
		parts = append(parts, unit)
	}
	if len(parts) == 0 {
		return "some"
	}
	return strings.Join(parts, " ")
}

func inPantry(key string, pantry []string) bool {
	for _, p := range pantry {
		if strings.Contains(key, p) || strings.Contains(p, key) {
			return true
		}
	}
	return false
}
