// Package config loads the catalog client configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Sternrassler/catalog-client/pkg/cache"
	"github.com/Sternrassler/catalog-client/pkg/client"
	"github.com/Sternrassler/catalog-client/pkg/logging"
	"github.com/Sternrassler/catalog-client/pkg/pagination"
)

// Config holds all application configuration
type Config struct {
	API        APIConfig
	Pagination PaginationConfig
	Log        LogConfig

	// MetricsAddr serves /metrics when set, e.g. ":9090"
	MetricsAddr string `env:"METRICS_ADDR"`
}

// APIConfig holds product API settings
type APIConfig struct {
	BaseURL      string        `env:"CATALOG_API_URL,required,notEmpty"`
	ProductsPath string        `env:"CATALOG_PRODUCTS_PATH" envDefault:"/products/"`
	UserAgent    string        `env:"CATALOG_USER_AGENT" envDefault:"catalog-client/1.0"`
	Timeout      time.Duration `env:"CATALOG_REQUEST_TIMEOUT" envDefault:"30s"`
}

// PaginationConfig holds page, cache and prefetch settings
type PaginationConfig struct {
	PageSize            int           `env:"CATALOG_PAGE_SIZE" envDefault:"100"`
	CacheTTL            time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	Prefetch            bool          `env:"CATALOG_PREFETCH" envDefault:"true"`
	PrefetchPages       int           `env:"CATALOG_PREFETCH_PAGES" envDefault:"2"`
	PrefetchConcurrency int           `env:"CATALOG_PREFETCH_CONCURRENCY" envDefault:"2"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges the env parser cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_REQUEST_TIMEOUT must be positive, got %s", c.API.Timeout))
	}
	if c.Pagination.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_CACHE_TTL must be positive, got %s", c.Pagination.CacheTTL))
	}
	if c.Pagination.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", c.Pagination.PageSize))
	}
	if c.Pagination.PrefetchPages < 0 {
		errs = append(errs, fmt.Errorf("CATALOG_PREFETCH_PAGES must not be negative, got %d", c.Pagination.PrefetchPages))
	}
	if c.Pagination.PrefetchConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_PREFETCH_CONCURRENCY must be positive, got %d", c.Pagination.PrefetchConcurrency))
	}
	return errors.Join(errs...)
}

// ClientConfig returns the product API client configuration.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.API.BaseURL, c.API.UserAgent)
	cfg.ProductsPath = c.API.ProductsPath
	cfg.Timeout = c.API.Timeout
	return cfg
}

// CacheConfig returns the cache store configuration.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{TTL: c.Pagination.CacheTTL}
}

// PaginationConfig returns the controller configuration.
func (c *Config) PaginationConfig() pagination.Config {
	cfg := pagination.DefaultConfig()
	cfg.PageSize = c.Pagination.PageSize
	cfg.PrefetchNext = c.Pagination.Prefetch
	cfg.PrefetchPages = c.Pagination.PrefetchPages
	cfg.PrefetchConcurrency = c.Pagination.PrefetchConcurrency
	return cfg
}

// LoggingConfig returns the logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	cfg.Service = "catalog-client"
	return cfg
}
