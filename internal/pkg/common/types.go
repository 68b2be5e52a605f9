package common

import (
	"fmt"
	"math"
	"strings"
)

// SourceLocal 本地食譜庫的來源標記
const SourceLocal = "local"

// Recipe 定義食譜資料（由目錄或線上來源提供，引擎只讀）
type Recipe struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Ingredients      []string `json:"ingredients" yaml:"ingredients"`
	Tags             []string `json:"tags,omitempty" yaml:"tags"`
	Cuisine          string   `json:"cuisine,omitempty" yaml:"cuisine"`
	RatingAvg        *float64 `json:"rating_avg,omitempty" yaml:"rating_avg"`
	RatingCount      int      `json:"rating_count" yaml:"rating_count"`
	Difficulty       string   `json:"difficulty,omitempty" yaml:"difficulty"`
	TotalTimeMinutes *int     `json:"total_time_minutes,omitempty" yaml:"total_time_minutes"`
	Servings         int      `json:"servings,omitempty" yaml:"servings"`
	// Source 為空表示本地食譜，否則為線上提供者名稱
	Source string `json:"source,omitempty" yaml:"source"`
}

// Validate 驗證食譜欄位
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return NewValidationError("recipe id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError(fmt.Sprintf("recipe %s: name is required", r.ID))
	}
	if r.RatingCount < 0 {
		return NewValidationError(fmt.Sprintf("recipe %s: rating_count must be non-negative", r.ID))
	}
	if r.RatingAvg != nil && (math.IsNaN(*r.RatingAvg) || *r.RatingAvg < 0) {
		return NewValidationError(fmt.Sprintf("recipe %s: rating_avg must be non-negative", r.ID))
	}
	if r.TotalTimeMinutes != nil && *r.TotalTimeMinutes < 0 {
		return NewValidationError(fmt.Sprintf("recipe %s: total_time_minutes must be non-negative", r.ID))
	}
	return nil
}

// IsLocal 是否為本地食譜
func (r Recipe) IsLocal() bool {
	return r.Source == "" || r.Source == SourceLocal
}

// SourceLabel 返回結果中使用的來源標籤
func (r Recipe) SourceLabel() string {
	if r.IsLocal() {
		return SourceLocal
	}
	return "online:" + r.Source
}

// Rating 返回平均評分，缺失時為 0
func (r Recipe) Rating() float64 {
	if r.RatingAvg == nil {
		return 0
	}
	return *r.RatingAvg
}

// DisplayName 顯示名稱，缺失時退回 ID
func (r Recipe) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
