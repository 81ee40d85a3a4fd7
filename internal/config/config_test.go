package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/catalog-client/pkg/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CATALOG_API_URL", "https://api.example.com/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "/products/", cfg.API.ProductsPath)
	assert.Equal(t, "catalog-client/1.0", cfg.API.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 100, cfg.Pagination.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Pagination.CacheTTL)
	assert.True(t, cfg.Pagination.Prefetch)
	assert.Equal(t, 2, cfg.Pagination.PrefetchPages)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_API_URL", "http://localhost:8000")
	t.Setenv("CATALOG_PRODUCTS_PATH", "/v2/products")
	t.Setenv("CATALOG_USER_AGENT", "shop-ui/3.1")
	t.Setenv("CATALOG_REQUEST_TIMEOUT", "5s")
	t.Setenv("CATALOG_PAGE_SIZE", "50")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("CATALOG_PREFETCH", "false")
	t.Setenv("CATALOG_PREFETCH_PAGES", "4")
	t.Setenv("CATALOG_PREFETCH_CONCURRENCY", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("METRICS_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	clientCfg := cfg.ClientConfig()
	assert.Equal(t, "http://localhost:8000", clientCfg.BaseURL)
	assert.Equal(t, "/v2/products", clientCfg.ProductsPath)
	assert.Equal(t, "shop-ui/3.1", clientCfg.UserAgent)
	assert.Equal(t, 5*time.Second, clientCfg.Timeout)

	assert.Equal(t, 90*time.Second, cfg.CacheConfig().TTL)

	pageCfg := cfg.PaginationConfig()
	assert.Equal(t, 50, pageCfg.PageSize)
	assert.False(t, pageCfg.PrefetchNext)
	assert.Equal(t, 4, pageCfg.PrefetchPages)
	assert.Equal(t, 3, pageCfg.PrefetchConcurrency)
	require.NoError(t, pageCfg.Validate())

	logCfg := cfg.LoggingConfig()
	assert.Equal(t, logging.LevelDebug, logCfg.Level)
	assert.True(t, logCfg.Pretty)
	assert.Equal(t, "catalog-client", logCfg.Service)

	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing api url",
			env:  map[string]string{},
		},
		{
			name: "bad duration",
			env:  map[string]string{"CATALOG_API_URL": "http://x", "CATALOG_CACHE_TTL": "soon"},
		},
		{
			name: "zero ttl",
			env:  map[string]string{"CATALOG_API_URL": "http://x", "CATALOG_CACHE_TTL": "0s"},
		},
		{
			name: "zero page size",
			env:  map[string]string{"CATALOG_API_URL": "http://x", "CATALOG_PAGE_SIZE": "0"},
		},
		{
			name: "negative prefetch pages",
			env:  map[string]string{"CATALOG_API_URL": "http://x", "CATALOG_PREFETCH_PAGES": "-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CATALOG_API_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
