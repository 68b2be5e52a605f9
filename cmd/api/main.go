package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-matcher/internal/api"
	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("tables_path", cfg.Tables.Path),
		zap.Bool("online_search", cfg.Catalog.Online.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 食材資料表
	var tables *ingredient.Tables
	if cfg.Tables.Path != "" {
		tables, err = ingredient.LoadTables(cfg.Tables.Path)
	} else {
		tables, err = ingredient.DefaultTables()
	}
	if err != nil {
		common.LogFatal("Failed to load ingredient tables", zap.Error(err))
	}

	// 食譜目錄
	cat, err := catalog.Load(context.Background(), catalog.NewFileSource(cfg.Catalog.Path))
	if err != nil {
		common.LogFatal("Failed to load recipe catalog", zap.Error(err))
	}
	common.LogInfo("Catalog loaded", zap.Int("recipes", cat.Len()))

	// 初始化快取，只在開啟但初始化失敗時才 Fatal
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	engine, err := recipeService.NewEngine(cfg, tables)
	if err != nil {
		common.LogFatal("Failed to build matching engine", zap.Error(err))
	}
	svc := recipeService.NewService(cfg, engine, cat, recipeService.NewProviders(cfg.Catalog, store))

	// 設置路由
	router, err := api.SetupRouter(cfg, svc, store)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
