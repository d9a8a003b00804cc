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

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Search      SearchConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds Plati/Digiseller endpoint configuration
type MarketplaceConfig struct {
	SearchURL      string        `mapstructure:"search_url"`
	ProductURL     string        `mapstructure:"product_url"`
	ReviewsURL     string        `mapstructure:"reviews_url"`
	CategoryURL    string        `mapstructure:"category_url"`
	LinkURL        string        `mapstructure:"link_url"`
	OwnerID        string        `mapstructure:"owner_id"`
	UserAgent      string        `mapstructure:"user_agent"`
	SearchTimeout  time.Duration `mapstructure:"search_timeout"`
	DetailTimeout  time.Duration `mapstructure:"detail_timeout"`
	ReviewsTimeout time.Duration `mapstructure:"reviews_timeout"`
}

// SearchConfig holds offer search defaults
type SearchConfig struct {
	Currency      string `mapstructure:"currency"`
	Lang          string `mapstructure:"lang"`
	PerPage       int    `mapstructure:"per_page"`
	MaxPages      int    `mapstructure:"max_pages"`
	Limit         int    `mapstructure:"limit"`
	DetailWorkers int    `mapstructure:"detail_workers"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP       int     `mapstructure:"per_ip"`      // requests per minute per client
	Marketplace float64 `mapstructure:"marketplace"` // outbound requests per second
	Burst       int     `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/offerlens/")

	// OFFERLENS_SEARCH_PER_PAGE -> search.per_page
	v.SetEnvPrefix("OFFERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Marketplace defaults
	v.SetDefault("marketplace.search_url", "https://api.digiseller.com/api/cataloguer/front/products")
	v.SetDefault("marketplace.product_url", "https://api.digiseller.com/api/products/%d/data")
	v.SetDefault("marketplace.reviews_url", "https://api.digiseller.com/api/reviews")
	v.SetDefault("marketplace.category_url", "https://plati.market/asp/block_goods_category_2.asp")
	v.SetDefault("marketplace.link_url", "https://plati.market/itm/i/%d")
	v.SetDefault("marketplace.owner_id", "plati")
	v.SetDefault("marketplace.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("marketplace.search_timeout", "30s")
	v.SetDefault("marketplace.detail_timeout", "12s")
	v.SetDefault("marketplace.reviews_timeout", "10s")

	// Search defaults
	v.SetDefault("search.currency", "RUB")
	v.SetDefault("search.lang", "ru-RU")
	v.SetDefault("search.per_page", 30)
	v.SetDefault("search.max_pages", 6)
	v.SetDefault("search.limit", 20)
	v.SetDefault("search.detail_workers", 1)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.marketplace", 5.0)
	v.SetDefault("ratelimit.burst", 5)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	m := config.Marketplace
	if m.SearchURL == "" || m.ProductURL == "" || m.ReviewsURL == "" {
		return fmt.Errorf("marketplace search, product and reviews URLs are required")
	}

	if !strings.Contains(m.ProductURL, "%d") {
		return fmt.Errorf("marketplace product_url must contain a %%d product id placeholder, got: %s", m.ProductURL)
	}

	if config.Search.PerPage < 1 || config.Search.MaxPages < 1 {
		return fmt.Errorf("search per_page and max_pages must be positive")
	}

	if config.Search.DetailWorkers < 1 {
		return fmt.Errorf("search detail_workers must be at least 1, got: %d", config.Search.DetailWorkers)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if config.RateLimit.Marketplace <= 0 {
		return fmt.Errorf("marketplace rate limit must be positive")
	}

	return nil
}
