package recipe

import (
	"net/http"

	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// getRequestID 取得請求 ID，缺少時生成並寫回回應標頭
func getRequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	id := uuid.New().String()
	c.Header("X-Request-ID", id)
	return id
}

// respondError 依錯誤類型輸出 JSON 錯誤
func respondError(c *gin.Context, requestID string, err error) {
	status, code := common.StatusOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
		)
		message = http.StatusText(status)
	} else {
		common.LogWarn("請求被拒絕",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("code", code),
		)
	}
	c.JSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}

// bindJSON 解析請求體，失敗時輸出 400
func bindJSON(c *gin.Context, requestID string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return false
	}
	return true
}
