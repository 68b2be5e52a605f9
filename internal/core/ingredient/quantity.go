package ingredient

import (
	"math"
	"math/big"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)`)
	fractionPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	decimalPattern  = regexp.MustCompile(`^(\d*\.\d+|\d+)`)
	unitPattern     = regexp.MustCompile(`^([A-Za-z]+)\.?`)
)

// Unicode 分數字元
var vulgarFractions = map[rune][2]int64{
	'½': {1, 2},
	'⅓': {1, 3},
	'⅔': {2, 3},
	'¼': {1, 4},
	'¾': {3, 4},
	'⅕': {1, 5},
	'⅖': {2, 5},
	'⅗': {3, 5},
	'⅘': {4, 5},
	'⅙': {1, 6},
	'⅚': {5, 6},
	'⅛': {1, 8},
	'⅜': {3, 8},
	'⅝': {5, 8},
	'⅞': {7, 8},
}

// ParsedLine 食材行的解析結果
type ParsedLine struct {
	// Amount 精確的有理數數量，無數量時為 nil
	Amount *big.Rat
	// Unit 原文中的單位寫法（小寫）
	Unit      string
	Remainder string
}

// HasQuantity 是否解析出數量
func (p ParsedLine) HasQuantity() bool {
	return p.Amount != nil
}

// Quantity 轉換為浮點數
func (p ParsedLine) Quantity() (float64, bool) {
	if p.Amount == nil {
		return 0, false
	}
	f, _ := p.Amount.Float64()
	return f, true
}

// Scale 數量乘以倍數；無數量時原樣返回
func (p ParsedLine) Scale(multiplier float64) ParsedLine {
	if p.Amount == nil || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return p
	}
	m := new(big.Rat)
	if m.SetFloat64(multiplier) == nil {
		return p
	}
	p.Amount = new(big.Rat).Mul(p.Amount, m)
	return p
}

// Key 去除數量與單位後的標準化食材鍵
func (t *Tables) Key(line string) string {
	return t.Normalize(t.ParseQuantityAndUnit(line).Remainder)
}

// ParseQuantityAndUnit 使用預設資料表解析食材行
func ParseQuantityAndUnit(line string) ParsedLine {
	return MustDefaultTables().ParseQuantityAndUnit(line)
}

// ParseQuantityAndUnit 解析開頭的數量與單位；沒有數量時原樣返回整行
func (t *Tables) ParseQuantityAndUnit(line string) ParsedLine {
	s := strings.TrimSpace(line)
	amount, rest, ok := parseAmount(s)
	if !ok {
		return ParsedLine{Remainder: line}
	}
	// 數字後緊接字母時只接受緊貼的單位（200g），1e400 之類不算數量
	if r, _ := utf8.DecodeRuneInString(rest); unicode.IsLetter(r) {
		if unit, _ := t.parseUnit(rest); unit == "" {
			return ParsedLine{Remainder: line}
		}
	}

	rest = strings.TrimSpace(rest)
	unit, after := t.parseUnit(rest)
	return ParsedLine{
		Amount:    amount,
		Unit:      unit,
		Remainder: strings.TrimSpace(strings.TrimLeft(after, " ,")),
	}
}

// parseAmount 解析帶分數、分數、小數、整數與 Unicode 分數
func parseAmount(s string) (*big.Rat, string, bool) {
	if m := mixedPattern.FindStringSubmatch(s); m != nil {
		whole, ok1 := new(big.Rat).SetString(m[1])
		frac, ok2 := ratio(m[2], m[3])
		if !ok1 || !ok2 {
			return nil, s, false
		}
		return whole.Add(whole, frac), s[len(m[0]):], true
	}
	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		frac, ok := ratio(m[1], m[2])
		if !ok {
			return nil, s, false
		}
		return frac, s[len(m[0]):], true
	}
	if m := decimalPattern.FindString(s); m != "" {
		amount, ok := new(big.Rat).SetString(m)
		if !ok {
			return nil, s, false
		}
		rest := s[len(m):]
		if frac, n := leadingVulgar(strings.TrimLeft(rest, " ")); frac != nil {
			amount.Add(amount, frac)
			rest = strings.TrimLeft(rest, " ")[n:]
		}
		return amount, rest, true
	}
	if frac, n := leadingVulgar(s); frac != nil {
		return frac, s[n:], true
	}
	return nil, s, false
}

func ratio(num, den string) (*big.Rat, bool) {
	n, ok := new(big.Int).SetString(num, 10)
	if !ok {
		return nil, false
	}
	d, ok := new(big.Int).SetString(den, 10)
	if !ok || d.Sign() == 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(n, d), true
}

func leadingVulgar(s string) (*big.Rat, int) {
	r, size := utf8.DecodeRuneInString(s)
	f, ok := vulgarFractions[r]
	if !ok {
		return nil, 0
	}
	return big.NewRat(f[0], f[1]), size
}

// parseUnit 嘗試在開頭找到已知單位（含兩個字的單位，如 fl oz）
func (t *Tables) parseUnit(s string) (string, string) {
	if s == "" {
		return "", s
	}
	first := unitPattern.FindStringSubmatch(s)
	if first == nil {
		return "", s
	}
	rest := s[len(first[0]):]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) && rest[0] != ',' && rest[0] != ')' {
		return "", s
	}

	// 兩個字的單位
	trimmed := strings.TrimLeft(rest, " ")
	if second := unitPattern.FindStringSubmatch(trimmed); second != nil {
		pair := strings.ToLower(first[1] + " " + second[1])
		if _, ok := t.units[pair]; ok {
			return pair, trimmed[len(second[0]):]
		}
	}

	word := strings.ToLower(first[1])
	if _, ok := t.units[word]; ok {
		return word, rest
	}
	return "", s
}
