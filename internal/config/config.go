package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Trends      TrendsConfig    `mapstructure:"trends"`
	Analyzer    AnalyzerConfig  `mapstructure:"analyzer"`
	Inventory   InventoryConfig `mapstructure:"inventory"`
	Gemini      GeminiConfig    `mapstructure:"gemini"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
}

type ServerConfig struct {
	Port          int   `mapstructure:"port"`
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
	TTL      string `mapstructure:"ttl"`
}

// TrendsConfig controls the upstream search-interest fetcher
type TrendsConfig struct {
	ServiceURL     string `mapstructure:"service_url"`
	Geo            string `mapstructure:"geo"`
	Timeframe      string `mapstructure:"timeframe"`
	Timeout        int    `mapstructure:"timeout"`
	MaxKeywords    int    `mapstructure:"max_keywords"`
	BatchSize      int    `mapstructure:"batch_size"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryBaseDelay string `mapstructure:"retry_base_delay"`
	FetchPause     string `mapstructure:"fetch_pause"`
}

// AnalyzerConfig holds the tunable thresholds and weights of the trend
// classification engine. The numeric values are policy, not contract: the
// classifier only requires rising > 0 > declining and weights that keep
// confidence monotone in |velocity| and strength.
type AnalyzerConfig struct {
	RecentWindow       int     `mapstructure:"recent_window"`
	RisingThreshold    float64 `mapstructure:"rising_threshold"`
	DecliningThreshold float64 `mapstructure:"declining_threshold"`
	FlatThreshold      float64 `mapstructure:"flat_threshold"`
	PeakTolerance      float64 `mapstructure:"peak_tolerance"`
	PeakFloor          float64 `mapstructure:"peak_floor"`
	VelocityWeight     float64 `mapstructure:"velocity_weight"`
	StrengthWeight     float64 `mapstructure:"strength_weight"`
	VelocityCap        float64 `mapstructure:"velocity_cap"`
	MinConfidence      float64 `mapstructure:"min_confidence"`
	MaxResults         int     `mapstructure:"max_results"`
	Workers            int     `mapstructure:"workers"`
}

type InventoryConfig struct {
	CSVFile             string `mapstructure:"csv_file"`
	CurrentSeason       string `mapstructure:"current_season"`
	DefaultReorderPoint int    `mapstructure:"default_reorder_point"`
	DefaultLeadTimeDays int    `mapstructure:"default_lead_time_days"`
}

type GeminiConfig struct {
	APIKey    string `mapstructure:"api_key" json:"-" yaml:"-"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token" json:"-" yaml:"-"`
	ChatID   int64  `mapstructure:"chat_id"`
}

func Load() (*Config, error) {
	// Best effort .env load, ignored when absent
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}
	if err := viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind TELEGRAM_BOT_TOKEN environment variable: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Analyzer.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects analyzer settings that would break the classification
// contract before any keyword is processed.
func (a AnalyzerConfig) Validate() error {
	if a.RecentWindow < 0 {
		return fmt.Errorf("analyzer recent_window must not be negative, got %d", a.RecentWindow)
	}
	if a.RisingThreshold <= 0 {
		return fmt.Errorf("analyzer rising_threshold must be positive, got %.2f", a.RisingThreshold)
	}
	if a.DecliningThreshold >= 0 {
		return fmt.Errorf("analyzer declining_threshold must be negative, got %.2f", a.DecliningThreshold)
	}
	if a.FlatThreshold < 0 {
		return fmt.Errorf("analyzer flat_threshold must not be negative, got %.2f", a.FlatThreshold)
	}
	if a.PeakTolerance <= 0 || a.PeakTolerance > 1 {
		return fmt.Errorf("analyzer peak_tolerance must be in (0,1], got %.2f", a.PeakTolerance)
	}
	if a.PeakFloor < 0 || a.PeakFloor > 100 {
		return fmt.Errorf("analyzer peak_floor must be in [0,100], got %.2f", a.PeakFloor)
	}
	if a.VelocityWeight < 0 || a.StrengthWeight < 0 {
		return fmt.Errorf("analyzer confidence weights must not be negative, got %.2f/%.2f", a.VelocityWeight, a.StrengthWeight)
	}
	if a.VelocityCap <= 0 {
		return fmt.Errorf("analyzer velocity_cap must be positive, got %.2f", a.VelocityCap)
	}
	if a.MinConfidence < 0 {
		return fmt.Errorf("analyzer min_confidence must not be negative, got %.2f", a.MinConfidence)
	}
	if a.MaxResults < 0 {
		return fmt.Errorf("analyzer max_results must not be negative, got %d", a.MaxResults)
	}
	return nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.max_upload_size", 16*1024*1024)

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.ttl", "1h")

	// Trends
	viper.SetDefault("trends.service_url", "http://localhost:3100")
	viper.SetDefault("trends.geo", "US")
	viper.SetDefault("trends.timeframe", "today 3-m")
	viper.SetDefault("trends.timeout", 30)
	viper.SetDefault("trends.max_keywords", 15)
	viper.SetDefault("trends.batch_size", 5)
	viper.SetDefault("trends.max_retries", 3)
	viper.SetDefault("trends.retry_base_delay", "5s")
	viper.SetDefault("trends.fetch_pause", "3s")

	// Analyzer
	viper.SetDefault("analyzer.recent_window", 0) // 0 = most recent third
	viper.SetDefault("analyzer.rising_threshold", 10.0)
	viper.SetDefault("analyzer.declining_threshold", -10.0)
	viper.SetDefault("analyzer.flat_threshold", 5.0)
	viper.SetDefault("analyzer.peak_tolerance", 0.9)
	viper.SetDefault("analyzer.peak_floor", 70.0)
	viper.SetDefault("analyzer.velocity_weight", 0.6)
	viper.SetDefault("analyzer.strength_weight", 0.4)
	viper.SetDefault("analyzer.velocity_cap", 100.0)
	viper.SetDefault("analyzer.min_confidence", 20.0)
	viper.SetDefault("analyzer.max_results", 10)
	viper.SetDefault("analyzer.workers", 1)

	// Inventory
	viper.SetDefault("inventory.csv_file", "store_inventory.csv")
	viper.SetDefault("inventory.current_season", "Late Summer")
	viper.SetDefault("inventory.default_reorder_point", 100)
	viper.SetDefault("inventory.default_lead_time_days", 14)

	// Gemini
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.timeout", 60)
	viper.SetDefault("gemini.max_tokens", 2048)

	// Telegram
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.chat_id", 0)
}
