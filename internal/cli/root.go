package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/spf13/cobra"
)

// options 全域旗標
type options struct {
	catalogPath string
	tablesPath  string
	logLevel    string
	jsonOutput  bool
}

// app 命令執行時建立的依賴
type app struct {
	opts   *options
	cfg    *config.Config
	engine *recipeService.Engine
	store  cache.Store
}

// NewRootCmd 建立 recipectl 根命令
func NewRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "recipectl",
		Short: "Match recipes against the ingredients you have",
		Long: `recipectl ranks recipes from a local catalog by how many of their
ingredients you already have, recommends similar recipes and builds
consolidated shopping lists.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}

	defaults := config.Default()
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", defaults.Catalog.Path, "recipe catalog file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&opts.tablesPath, "tables", defaults.Tables.Path, "ingredient tables YAML (default: embedded tables)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "enable logging at the given level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newMatchCmd(a),
		newAnalyzeCmd(a),
		newSimilarCmd(a),
		newHistoryCmd(a),
		newShopCmd(a),
		newParseCmd(a),
	)
	return root
}

// Execute 執行根命令
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init() error {
	if a.opts.logLevel != "" {
		if err := common.InitLoggerWithFile(a.opts.logLevel, ""); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	a.cfg = config.Default()
	a.cfg.Catalog.Path = a.opts.catalogPath
	a.cfg.Tables.Path = a.opts.tablesPath

	var tables *ingredient.Tables
	var err error
	if a.cfg.Tables.Path != "" {
		tables, err = ingredient.LoadTables(a.cfg.Tables.Path)
	} else {
		tables, err = ingredient.DefaultTables()
	}
	if err != nil {
		return fmt.Errorf("failed to load ingredient tables: %w", err)
	}

	a.engine, err = recipeService.NewEngine(a.cfg, tables)
	return err
}

// service 載入目錄並建立服務；online 為 true 時加上線上提供者
func (a *app) service(ctx context.Context, online bool) (*recipeService.Service, error) {
	cat, err := catalog.Load(ctx, catalog.NewFileSource(a.cfg.Catalog.Path))
	if err != nil {
		return nil, err
	}

	var providers []catalog.Provider
	if online {
		a.cfg.Catalog.Online.Enabled = true
		if a.store == nil {
			a.store, err = cache.NewStore(a.cfg.Cache)
			if err != nil {
				return nil, err
			}
		}
		providers = recipeService.NewProviders(a.cfg.Catalog, a.store)
	}
	return recipeService.NewService(a.cfg, a.engine, cat, providers), nil
}

// printJSON 以縮排 JSON 輸出
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
