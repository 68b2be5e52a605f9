package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"recipe-matcher/internal/api/handlers/health"
	recipeHandler "recipe-matcher/internal/api/handlers/recipe"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/cache"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 預設請求超時
	defaultTimeout = 30 * time.Second
	// 預設請求體大小限制 (1MB)
	defaultMaxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *recipeService.Service, store cache.Store) (*gin.Engine, error) {
	if cfg == nil || svc == nil {
		return nil, fmt.Errorf("router requires config and recipe service")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.Request.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodySize := cfg.Request.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	// 創建路由引擎
	router := gin.New()
	metrics := middleware.NewMetrics()
	if svc.Catalog != nil {
		metrics.SetRecipes(svc.Catalog.Len())
	}

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 全局中間件：設置超時和依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("catalog", svc.Catalog)
		c.Set("cache", store)

		c.Next()

		// 檢查是否超時
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
				"details": gin.H{
					"timeout": timeout.String(),
				},
			})
		}
	})

	// 健康檢查與指標路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", metrics.Handler())

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window).Middleware())
	}
	{
		h := recipeHandler.NewHandler(svc)
		// 只有購物清單會產生下載檔，重複送出才擋；其餘為唯讀查詢
		dedup := middleware.NewDeduplicator(cfg.DedupWindow)

		api.POST("/match", h.HandleMatch)

		ingredientGroup := api.Group("/ingredients")
		{
			ingredientGroup.POST("/analyze", h.HandleAnalyze)
			ingredientGroup.POST("/parse", h.HandleParse)
		}

		api.GET("/recipes/:id/similar", h.HandleSimilar)
		api.POST("/recommendations/history", h.HandleHistory)
		api.POST("/shopping-list", dedup.Middleware(), h.HandleShoppingList)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("cache_enabled", store != nil),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
