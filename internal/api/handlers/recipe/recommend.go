package recipe

import (
	"net/http"
	"strconv"

	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleSimilar 取得相似食譜
func (h *Handler) HandleSimilar(c *gin.Context) {
	requestID := getRequestID(c)
	recipeID := c.Param("id")

	var limit *int
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, requestID, common.NewValidationError("limit must be an integer"))
			return
		}
		limit = &n
	}

	result, err := h.service.Recommendations.Similar(recipeID, limit)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	common.LogDebug("相似食譜查詢完成",
		zap.String("request_id", requestID),
		zap.String("recipe_id", recipeID),
		zap.Int("results", len(result.Recommendations)),
	)
	c.JSON(http.StatusOK, result)
}

// HandleHistory 依使用者喜歡的食譜推薦
func (h *Handler) HandleHistory(c *gin.Context) {
	requestID := getRequestID(c)

	var req recipeService.HistoryRequest
	if !bindJSON(c, requestID, &req) {
		return
	}

	result, err := h.service.Recommendations.ForHistory(req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
