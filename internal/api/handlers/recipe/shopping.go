package recipe

import (
	"bytes"
	"fmt"
	"net/http"

	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/shopping"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleShoppingList 產生並匯出購物清單
func (h *Handler) HandleShoppingList(c *gin.Context) {
	requestID := getRequestID(c)

	var req recipeService.ShoppingRequest
	if !bindJSON(c, requestID, &req) {
		return
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}

	result, err := h.service.Shopping.Build(req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	var buf bytes.Buffer
	if err := shopping.Export(&buf, result.List, result.Format); err != nil {
		respondError(c, requestID, common.ErrInternalError.Wrap(err))
		return
	}

	common.LogInfo("購物清單已匯出",
		zap.String("request_id", requestID),
		zap.String("format", string(result.Format)),
		zap.Int("bytes", buf.Len()),
	)

	if result.Format != shopping.FormatJSON {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="shopping-list.%s"`, extension(result.Format)))
	}
	c.Data(http.StatusOK, result.Format.ContentType(), buf.Bytes())
}

func extension(f shopping.Format) string {
	if f == shopping.FormatText {
		return "txt"
	}
	return string(f)
}
