package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	Matching       MatchingConfig       `mapstructure:"matching"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Shopping       ShoppingConfig       `mapstructure:"shopping"`
	Tables         TablesConfig         `mapstructure:"tables"`
	Catalog        CatalogConfig        `mapstructure:"catalog"`
	Cache          CacheConfig          `mapstructure:"cache"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Request        RequestConfig        `mapstructure:"request"`
	DedupWindow    time.Duration        `mapstructure:"dedup_window"`
	LogLevel       string               `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MatchingConfig 食材比對設定
type MatchingConfig struct {
	Threshold          float64            `mapstructure:"threshold"`
	MinMatchPercentage float64            `mapstructure:"min_match_percentage"`
	MaxResults         int                `mapstructure:"max_results"`
	LocalBonus         float64            `mapstructure:"local_bonus"`
	ProviderBonuses    map[string]float64 `mapstructure:"provider_bonuses"`
	NoMissingBonus     float64            `mapstructure:"no_missing_bonus"`
	FewMissingBonus    float64            `mapstructure:"few_missing_bonus"`
	FewMissingMax      int                `mapstructure:"few_missing_max"`
}

// TimeBandConfig 時間接近度區間
type TimeBandConfig struct {
	WithinMinutes int     `mapstructure:"within_minutes"`
	Bonus         float64 `mapstructure:"bonus"`
}

// RecommendationConfig 推薦權重設定
type RecommendationConfig struct {
	Cuisine      float64          `mapstructure:"cuisine"`
	Difficulty   float64          `mapstructure:"difficulty"`
	TimeBands    []TimeBandConfig `mapstructure:"time_bands"`
	Tag          float64          `mapstructure:"tag"`
	Ingredient   float64          `mapstructure:"ingredient"`
	Rating       float64          `mapstructure:"rating"`
	DefaultLimit int              `mapstructure:"default_limit"`
}

// ShoppingConfig 購物清單設定
type ShoppingConfig struct {
	ServingsMultiplier   float64 `mapstructure:"servings_multiplier"`
	CombineDuplicates    bool    `mapstructure:"combine_duplicates"`
	IncludeSubstitutions bool    `mapstructure:"include_substitutions"`
}

// TablesConfig 食材資料表設定（路徑為空時使用內嵌資料）
type TablesConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig 食譜目錄與線上來源設定
type CatalogConfig struct {
	Path   string       `mapstructure:"path"`
	Online OnlineConfig `mapstructure:"online"`
}

// OnlineConfig 線上食譜來源設定
type OnlineConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MealDBBaseURL string        `mapstructure:"mealdb_base_url"`
	MealDBAPIKey  string        `mapstructure:"mealdb_api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxLookups    int           `mapstructure:"max_lookups"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RequestConfig 請求限制設定
type RequestConfig struct {
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// LoadConfig 載入設定（.env 不存在時忽略）
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := newViper()

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("catalog.path", "CATALOG_PATH")
	v.BindEnv("catalog.online.enabled", "ONLINE_SEARCH_ENABLED")
	v.BindEnv("catalog.online.mealdb_api_key", "MEALDB_API_KEY")
	v.BindEnv("tables.path", "TABLES_PATH")
	v.BindEnv("cache.enabled", "CACHE_ENABLED")
	v.BindEnv("cache.backend", "CACHE_BACKEND")
	v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	v.BindEnv("cache.redis_password", "REDIS_PASSWORD")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("server.port", "PORT")

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration", "catalog:", v.GetString("catalog.path"), "mealdb_api_key:", maskAPIKey(v.GetString("catalog.online.mealdb_api_key")))

	return unmarshal(v)
}

// Default 只使用預設值的設定（測試與 CLI 使用）
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-matcher")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// 比對設定
	v.SetDefault("matching.threshold", 0.7)
	v.SetDefault("matching.min_match_percentage", 20.0)
	v.SetDefault("matching.max_results", 10)
	v.SetDefault("matching.local_bonus", 0.1)
	v.SetDefault("matching.provider_bonuses", map[string]interface{}{
		"spoonacular": 0.05,
		"edamam":      0.03,
		"themealdb":   0.02,
	})
	v.SetDefault("matching.no_missing_bonus", 0.2)
	v.SetDefault("matching.few_missing_bonus", 0.1)
	v.SetDefault("matching.few_missing_max", 2)

	// 推薦權重
	v.SetDefault("recommendation.cuisine", 40.0)
	v.SetDefault("recommendation.difficulty", 10.0)
	v.SetDefault("recommendation.time_bands", []map[string]interface{}{
		{"within_minutes": 15, "bonus": 20.0},
		{"within_minutes": 30, "bonus": 10.0},
		{"within_minutes": 60, "bonus": 5.0},
	})
	v.SetDefault("recommendation.tag", 15.0)
	v.SetDefault("recommendation.ingredient", 5.0)
	v.SetDefault("recommendation.rating", 3.0)
	v.SetDefault("recommendation.default_limit", 5)

	// 購物清單設定
	v.SetDefault("shopping.servings_multiplier", 1.0)
	v.SetDefault("shopping.combine_duplicates", true)
	v.SetDefault("shopping.include_substitutions", true)

	// 資料表與目錄
	v.SetDefault("tables.path", "")
	v.SetDefault("catalog.path", "data/recipes.yaml")
	v.SetDefault("catalog.online.enabled", false)
	v.SetDefault("catalog.online.mealdb_base_url", "https://www.themealdb.com/api/json/v1")
	v.SetDefault("catalog.online.mealdb_api_key", "1")
	v.SetDefault("catalog.online.timeout", "10s")
	v.SetDefault("catalog.online.max_lookups", 10)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 請求限制
	v.SetDefault("request.max_body_bytes", 1024*1024)
	v.SetDefault("request.timeout", "30s")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// Validate 驗證設定
func Validate(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證比對設定
	if config.Matching.Threshold < 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching threshold must be within [0,1]")
	}
	if config.Matching.MinMatchPercentage < 0 || config.Matching.MinMatchPercentage > 100 {
		return fmt.Errorf("matching min_match_percentage must be within [0,100]")
	}
	if config.Matching.MaxResults <= 0 {
		return fmt.Errorf("invalid matching max results")
	}

	// 驗證購物清單設定
	if config.Shopping.ServingsMultiplier <= 0 {
		return fmt.Errorf("invalid shopping servings multiplier")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	// 驗證限流設定
	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	if config.Catalog.Online.Enabled && config.Catalog.Online.MealDBBaseURL == "" {
		return fmt.Errorf("mealdb base url is required when online search is enabled")
	}

	return nil
}
