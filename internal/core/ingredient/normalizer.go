package ingredient

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	// 數字（含小數與指數寫法）整段移除，避免留下 1e400 的 e
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?(?:[eE][+-]?\d+)?`)
)

// Normalizer 將自由文字的食材行轉為比對用的標準鍵
type Normalizer struct {
	stopwords map[string]struct{}
}

// NewNormalizer 創建標準化器，measureWords 與 descriptors 皆會被移除
func NewNormalizer(measureWords, descriptors []string) *Normalizer {
	n := &Normalizer{stopwords: make(map[string]struct{}, len(measureWords)+len(descriptors))}
	for _, list := range [][]string{measureWords, descriptors} {
		for _, w := range list {
			for _, tok := range tokenize(w) {
				n.stopwords[tok] = struct{}{}
			}
		}
	}
	return n
}

// Normalize 小寫、去重音、移除數字/標點/單位/描述詞並壓縮空白
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := parentheticalPattern.ReplaceAllString(raw, " ")
	s = numberPattern.ReplaceAllString(s, " ")
	tokens := tokenize(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := n.stopwords[tok]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// tokenize 小寫去重音後，以非字母字元切分
func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	s = stripAccents(strings.ToLower(s))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
