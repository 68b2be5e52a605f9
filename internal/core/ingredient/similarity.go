package ingredient

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"

	"recipe-matcher/internal/pkg/common"
)

// 相似度規則分數
const (
	ExactScore     = 1.0
	SubstringScore = 0.8

	// DefaultThreshold 預設的比對門檻
	DefaultThreshold = 0.7
)

// Term 已標準化的食材項目
type Term struct {
	Raw        string
	Normalized string
	Quantity   *float64
	Unit       string
	stems      map[string]struct{}
}

// Scorer 計算兩個食材之間的相似度
type Scorer struct {
	tables *Tables
}

// NewScorer 創建相似度計算器
func NewScorer(tables *Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Tables 返回計算器使用的資料表
func (s *Scorer) Tables() *Tables {
	return s.tables
}

// Term 解析並標準化一行食材
func (s *Scorer) Term(raw string) Term {
	parsed := s.tables.ParseQuantityAndUnit(raw)
	term := Term{
		Raw:        raw,
		Normalized: s.tables.Normalize(parsed.Remainder),
		Unit:       parsed.Unit,
	}
	if q, ok := parsed.Quantity(); ok {
		term.Quantity = &q
	}
	term.stems = stemSet(term.Normalized)
	return term
}

// Terms 批次建立 Term
func (s *Scorer) Terms(raws []string) []Term {
	out := make([]Term, len(raws))
	for i, r := range raws {
		out[i] = s.Term(r)
	}
	return out
}

// Similarity 計算兩個食材字串的相似度，結果對稱且介於 [0,1]
func (s *Scorer) Similarity(a, b string) float64 {
	return s.Compare(s.Term(a), s.Term(b))
}

// Matches 相似度是否達到門檻
func (s *Scorer) Matches(a, b string, threshold float64) (bool, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return false, err
	}
	return s.Similarity(a, b) >= threshold, nil
}

// Compare 依序套用：完全相同、子字串、同義詞、詞幹 Jaccard
func (s *Scorer) Compare(a, b Term) float64 {
	na, nb := a.Normalized, b.Normalized
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return ExactScore
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return SubstringScore
	}
	if score, ok := s.tables.SynonymScore(na, nb); ok {
		return score
	}
	return jaccard(a.stemsOrCompute(), b.stemsOrCompute())
}

// ValidateThreshold 門檻必須介於 [0,1]
func ValidateThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return common.NewValidationError(fmt.Sprintf("threshold must be within [0,1], got %v", threshold))
	}
	return nil
}

func (t Term) stemsOrCompute() map[string]struct{} {
	if t.stems != nil {
		return t.stems
	}
	return stemSet(t.Normalized)
}

func stemSet(normalized string) map[string]struct{} {
	tokens := strings.Fields(normalized)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		stem, err := snowball.Stem(tok, "english", false)
		if err != nil || stem == "" {
			stem = tok
		}
		set[stem] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
