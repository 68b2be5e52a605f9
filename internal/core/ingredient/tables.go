package ingredient

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// OtherCategory 無法分類時的預設分類
	OtherCategory = "other"
	// DefaultSynonymScore 未指定分數的同義詞條目
	DefaultSynonymScore = 0.95
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// UnitEntry 單位及其別名
type UnitEntry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
	// Count 計數型單位（clove、can）只供數量解析使用，不從食材名稱移除
	Count bool `yaml:"count"`
}

// SynonymEntry 同義詞條目
type SynonymEntry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
	Score     float64  `yaml:"score"`
}

// CategoryEntry 分類關鍵字
type CategoryEntry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// TableData 資料表的原始內容
type TableData struct {
	Units               []UnitEntry         `yaml:"units"`
	Descriptors         []string            `yaml:"descriptors"`
	Synonyms            []SynonymEntry      `yaml:"synonyms"`
	Categories          []CategoryEntry     `yaml:"categories"`
	EssentialCategories []string            `yaml:"essential_categories"`
	PantryStaples       []string            `yaml:"pantry_staples"`
	Substitutions       map[string][]string `yaml:"substitutions"`
}

type category struct {
	name     string
	keywords [][]string
}

// Tables 建構後不可變的食材資料表，可供多個 goroutine 同時讀取
type Tables struct {
	normalizer    *Normalizer
	units         map[string]string
	// synonyms 名稱 → 所屬標準名稱 → 分數（標準名稱本身為 1）
	synonyms      map[string]map[string]float64
	categories    []category
	essential     []string
	pantry        [][]string
	substitutions map[string][]string
	vocabulary    []string
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// DefaultTables 載入內嵌的預設資料表（只解析一次，結果共用）
func DefaultTables() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = ParseTables(defaultTablesYAML)
	})
	return defaultTables, defaultErr
}

// MustDefaultTables 載入內嵌資料表，失敗時 panic
func MustDefaultTables() *Tables {
	t, err := DefaultTables()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTables 從 YAML 檔案載入資料表；path 為空時使用內嵌資料
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}
	return ParseTables(data)
}

// ParseTables 解析 YAML 資料表
func ParseTables(data []byte) (*Tables, error) {
	var td TableData
	if err := yaml.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("failed to parse tables: %w", err)
	}
	return NewTables(td)
}

// NewTables 驗證並索引資料表
func NewTables(td TableData) (*Tables, error) {
	t := &Tables{
		units:         make(map[string]string),
		synonyms:      make(map[string]map[string]float64),
		substitutions: make(map[string][]string),
	}

	var measureWords []string
	for _, u := range td.Units {
		canonical := strings.ToLower(strings.TrimSpace(u.Canonical))
		if canonical == "" {
			return nil, fmt.Errorf("unit entry without canonical name")
		}
		for _, alias := range append([]string{canonical}, u.Aliases...) {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}
			t.units[alias] = canonical
			if !u.Count {
				measureWords = append(measureWords, alias)
			}
		}
	}
	t.normalizer = NewNormalizer(measureWords, td.Descriptors)

	vocab := make(map[string]struct{})
	for _, s := range td.Synonyms {
		canonical := t.normalizer.Normalize(s.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("synonym entry %q normalizes to empty", s.Canonical)
		}
		score := s.Score
		if score == 0 {
			score = DefaultSynonymScore
		}
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("synonym entry %q: score %v out of range", s.Canonical, s.Score)
		}
		vocab[canonical] = struct{}{}
		t.indexSynonym(canonical, canonical, 1)
		for _, a := range s.Aliases {
			alias := t.normalizer.Normalize(a)
			if alias == "" || alias == canonical {
				continue
			}
			vocab[alias] = struct{}{}
			t.indexSynonym(alias, canonical, score)
		}
	}

	for _, c := range td.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category without name")
		}
		cat := category{name: name}
		for _, kw := range c.Keywords {
			toks := strings.Fields(t.normalizer.Normalize(kw))
			if len(toks) == 0 {
				continue
			}
			cat.keywords = append(cat.keywords, toks)
			vocab[strings.Join(toks, " ")] = struct{}{}
		}
		t.categories = append(t.categories, cat)
	}

	t.essential = append(t.essential, td.EssentialCategories...)
	for _, p := range td.PantryStaples {
		if toks := strings.Fields(t.normalizer.Normalize(p)); len(toks) > 0 {
			t.pantry = append(t.pantry, toks)
		}
	}
	for k, subs := range td.Substitutions {
		key := t.normalizer.Normalize(k)
		if key == "" {
			continue
		}
		t.substitutions[key] = append(t.substitutions[key], subs...)
	}

	t.vocabulary = make([]string, 0, len(vocab))
	for v := range vocab {
		t.vocabulary = append(t.vocabulary, v)
	}
	sort.Strings(t.vocabulary)

	return t, nil
}

// Normalize 使用資料表的單位與描述詞標準化食材名稱
func (t *Tables) Normalize(raw string) string {
	return t.normalizer.Normalize(raw)
}

// CanonicalUnit 返回單位的標準寫法；未知單位返回 false
func (t *Tables) CanonicalUnit(unit string) (string, bool) {
	c, ok := t.units[strings.ToLower(strings.TrimSpace(unit))]
	return c, ok
}

func (t *Tables) indexSynonym(name, canonical string, score float64) {
	if t.synonyms[name] == nil {
		t.synonyms[name] = make(map[string]float64)
	}
	if score > t.synonyms[name][canonical] {
		t.synonyms[name][canonical] = score
	}
}

// SynonymScore 兩個鍵歸屬同一標準名稱時返回較低的條目分數；容許複數字尾
func (t *Tables) SynonymScore(a, b string) (float64, bool) {
	best := 0.0
	for _, fa := range pluralForms(a) {
		for canonical, sa := range t.synonyms[fa] {
			for _, fb := range pluralForms(b) {
				sb, ok := t.synonyms[fb][canonical]
				if !ok {
					continue
				}
				score := math.Min(sa, sb)
				if score == 1 {
					// 同一標準名稱的不同寫法
					score = DefaultSynonymScore
				}
				best = math.Max(best, score)
			}
		}
	}
	return best, best > 0
}

// pluralForms 返回鍵本身及末字去除複數字尾後的寫法
func pluralForms(key string) []string {
	forms := []string{key}
	i := strings.LastIndex(key, " ") + 1
	head, last := key[:i], key[i:]
	for _, suffix := range []struct{ plural, single string }{{"ies", "y"}, {"es", ""}, {"s", ""}} {
		if len(last) > len(suffix.plural) && strings.HasSuffix(last, suffix.plural) {
			forms = append(forms, head+strings.TrimSuffix(last, suffix.plural)+suffix.single)
		}
	}
	return forms
}

// Category 返回第一個符合的分類，無符合時為 "other"
func (t *Tables) Category(key string) string {
	tokens := strings.Fields(key)
	for _, c := range t.categories {
		if c.matches(tokens) {
			return c.name
		}
	}
	return OtherCategory
}

// Categories 返回所有符合的分類（依資料表順序）
func (t *Tables) Categories(key string) []string {
	tokens := strings.Fields(key)
	var out []string
	for _, c := range t.categories {
		if c.matches(tokens) {
			out = append(out, c.name)
		}
	}
	return out
}

// CategoryNames 返回所有分類名稱
func (t *Tables) CategoryNames() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.name
	}
	return names
}

// CategoryKeywords 返回分類的關鍵字（已標準化）
func (t *Tables) CategoryKeywords(name string) []string {
	for _, c := range t.categories {
		if c.name != name {
			continue
		}
		out := make([]string, len(c.keywords))
		for i, kw := range c.keywords {
			out[i] = strings.Join(kw, " ")
		}
		return out
	}
	return nil
}

// EssentialCategories 返回必要分類
func (t *Tables) EssentialCategories() []string {
	return append([]string(nil), t.essential...)
}

// IsPantryStaple 是否為常備食材
func (t *Tables) IsPantryStaple(key string) bool {
	tokens := strings.Fields(key)
	if len(tokens) == 0 {
		return false
	}
	for _, p := range t.pantry {
		if containsPhrase(tokens, p) {
			return true
		}
	}
	return false
}

// Substitutes 返回標準鍵對應的替代食材
func (t *Tables) Substitutes(key string) []string {
	subs := t.substitutions[key]
	if len(subs) == 0 {
		return nil
	}
	return append([]string(nil), subs...)
}

// Vocabulary 返回所有已知的標準食材名稱（已排序）
func (t *Tables) Vocabulary() []string {
	return append([]string(nil), t.vocabulary...)
}

// Known 是否為資料表中出現過的名稱
func (t *Tables) Known(key string) bool {
	i := sort.SearchStrings(t.vocabulary, key)
	return i < len(t.vocabulary) && t.vocabulary[i] == key
}

func (c category) matches(tokens []string) bool {
	for _, kw := range c.keywords {
		if containsPhrase(tokens, kw) {
			return true
		}
	}
	return false
}

// containsPhrase 檢查 tokens 中是否連續出現 phrase，容許複數字尾
func containsPhrase(tokens, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		ok := true
		for j, p := range phrase {
			if !samePlural(tokens[i+j], p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func samePlural(word, keyword string) bool {
	if word == keyword {
		return true
	}
	if strings.HasPrefix(word, keyword) {
		suffix := word[len(keyword):]
		return suffix == "s" || suffix == "es"
	}
	if strings.HasSuffix(keyword, "y") && word == keyword[:len(keyword)-1]+"ies" {
		return true
	}
	return false
}
