package recipe

import (
	"net/http"

	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleMatch 依使用者食材搜尋食譜
func (h *Handler) HandleMatch(c *gin.Context) {
	requestID := getRequestID(c)

	var req recipeService.SearchRequest
	if !bindJSON(c, requestID, &req) {
		return
	}

	common.LogInfo("開始處理食譜比對請求",
		zap.String("request_id", requestID),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.Bool("include_online", req.IncludeOnline),
	)

	result, err := h.service.Search.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	common.LogInfo("食譜比對完成",
		zap.String("request_id", requestID),
		zap.Int("matches", len(result.Matches)),
		zap.Int("total_found", result.TotalFound),
	)
	c.JSON(http.StatusOK, result)
}
