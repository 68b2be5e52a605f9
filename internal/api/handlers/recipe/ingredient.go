package recipe

import (
	"net/http"

	recipeService "recipe-matcher/internal/core/recipe"

	"github.com/gin-gonic/gin"
)

// AnalyzeRequest 食材分析請求
type AnalyzeRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// HandleAnalyze 分析使用者食材
func (h *Handler) HandleAnalyze(c *gin.Context) {
	requestID := getRequestID(c)

	var req AnalyzeRequest
	if !bindJSON(c, requestID, &req) {
		return
	}

	c.JSON(http.StatusOK, h.service.Ingredients.Analyze(req.Ingredients))
}

// HandleParse 解析食材行
func (h *Handler) HandleParse(c *gin.Context) {
	requestID := getRequestID(c)

	var req recipeService.ParseRequest
	if !bindJSON(c, requestID, &req) {
		return
	}

	items, err := h.service.Ingredients.Parse(req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
