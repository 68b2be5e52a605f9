package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogFile 目錄檔格式
type catalogFile struct {
	Recipes []common.Recipe `json:"recipes" yaml:"recipes"`
}

// FileSource 從 JSON 或 YAML 檔案讀取食譜
type FileSource struct {
	Path string
}

// NewFileSource 創建檔案來源
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Recipes 讀取並解析目錄檔
func (s *FileSource) Recipes(ctx context.Context) ([]common.Recipe, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	var data catalogFile
	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".json":
		err = common.DecodeJSONStrict(f, &data)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", s.Path, err)
	}

	common.LogInfo("Catalog loaded",
		zap.String("path", s.Path),
		zap.Int("recipes", len(data.Recipes)),
	)
	return data.Recipes, nil
}
