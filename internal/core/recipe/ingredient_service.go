package recipe

import (
	"fmt"
	"math"

	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/pkg/common"
)

// IngredientService 食材分析與解析服務
type IngredientService struct {
	engine *Engine
}

// NewIngredientService 創建食材服務
func NewIngredientService(engine *Engine) *IngredientService {
	return &IngredientService{engine: engine}
}

// Analyze 分析使用者食材
func (s *IngredientService) Analyze(ingredients []string) match.Analysis {
	return s.engine.Analyzer.Analyze(ingredients)
}

// Parse 解析食材行的數量、單位與標準化鍵值
func (s *IngredientService) Parse(req ParseRequest) ([]ParsedIngredient, error) {
	multiplier := 1.0
	if req.ServingsMultiplier != nil {
		multiplier = *req.ServingsMultiplier
	}
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return nil, common.NewValidationError(fmt.Sprintf("servings_multiplier must be a positive number, got %v", multiplier))
	}

	tables := s.engine.Tables
	out := make([]ParsedIngredient, 0, len(req.Lines))
	for _, line := range req.Lines {
		parsed := tables.ParseQuantityAndUnit(line).Scale(multiplier)
		key := tables.Normalize(parsed.Remainder)
		item := ParsedIngredient{
			Line:      line,
			Unit:      parsed.Unit,
			Remainder: parsed.Remainder,
			Key:       key,
			Category:  tables.Category(key),
		}
		if q, ok := parsed.Quantity(); ok {
			item.Quantity = &q
		}
		if c, ok := tables.CanonicalUnit(parsed.Unit); ok {
			item.CanonicalUnit = c
		}
		out = append(out, item)
	}
	return out, nil
}
