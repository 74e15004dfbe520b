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
	Queue          QueueConfig          `mapstructure:"queue"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Tags           TagsConfig           `mapstructure:"tags"`
	DocumentSource DocumentSourceConfig `mapstructure:"document_source"`
	Review         ReviewConfig         `mapstructure:"review"`
	Reference      ReferenceConfig      `mapstructure:"reference"`
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
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// QueueConfig 解析隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// TagsConfig 文件標籤與格式的對應
type TagsConfig struct {
	StructuredJSON string `mapstructure:"structured_json"`
	Encyclopedia   string `mapstructure:"encyclopedia"`
	Handbook       string `mapstructure:"handbook"`
}

// DocumentSourceConfig 上游文件管理系統
type DocumentSourceConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

// ReviewConfig 待審核候選的交付目的地
type ReviewConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Key           string `mapstructure:"key"`
}

// ReferenceConfig 參考資料檔（杯型、OCR 修正表）
type ReferenceConfig struct {
	Path string `mapstructure:"path"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件；檔案不存在時只使用環境變數與預設值
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("document_source.base_url", "DOCUMENT_SOURCE_URL")
	_ = v.BindEnv("document_source.token", "DOCUMENT_SOURCE_TOKEN")
	_ = v.BindEnv("document_source.enabled", "DOCUMENT_SOURCE_ENABLED")
	_ = v.BindEnv("review.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("review.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("review.enabled", "REVIEW_ENABLED")
	_ = v.BindEnv("reference.path", "REFERENCE_PATH")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

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

	fmt.Println("Loading configuration", "document_source:", v.GetString("document_source.base_url"),
		"token:", maskToken(v.GetString("document_source.token")),
		"review_redis:", v.GetString("review.redis_addr"))

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskToken 遮罩存取權杖，只顯示前後各 4 個字符
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "cocktail-ingest")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 10*1024*1024) // 10MB

	// 隊列設定
	v.SetDefault("queue.workers", 5)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 標籤設定
	v.SetDefault("tags.structured_json", "json")
	v.SetDefault("tags.encyclopedia", "encyclopedia")
	v.SetDefault("tags.handbook", "handbook")

	// 文件來源
	v.SetDefault("document_source.enabled", false)
	v.SetDefault("document_source.timeout", "30s")
	v.SetDefault("document_source.page_size", 50)

	// 審核交付
	v.SetDefault("review.enabled", false)
	v.SetDefault("review.redis_addr", "localhost:6379")
	v.SetDefault("review.redis_db", 0)
	v.SetDefault("review.key", "cocktails:pending")

	v.SetDefault("reference.path", "")

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.DocumentSource.Enabled {
		if config.DocumentSource.BaseURL == "" {
			return fmt.Errorf("document source base url is required")
		}
		if config.DocumentSource.PageSize <= 0 {
			return fmt.Errorf("invalid document source page size")
		}
	}

	if config.Review.Enabled {
		if config.Review.RedisAddr == "" {
			return fmt.Errorf("review redis address is required")
		}
		if config.Review.Key == "" {
			return fmt.Errorf("review key is required")
		}
	}

	return nil
}
