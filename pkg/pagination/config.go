package pagination

import (
	"fmt"
	"time"
)

// Defaults for the pagination controller.
const (
	DefaultPageSize            = 100
	DefaultPrefetchPages       = 2
	DefaultPrefetchConcurrency = 2
	DefaultPrefetchTimeout     = 15 * time.Second
)

// Config holds pagination controller configuration.
type Config struct {
	// PageSize is the number of products per page. It drives both the
	// last-page detection and the total page computation.
	PageSize int

	// PrefetchNext enables background prefetch after a page is fetched from upstream.
	PrefetchNext bool

	// PrefetchPages is how many following pages to prefetch.
	PrefetchPages int

	// PrefetchConcurrency is the maximum number of parallel prefetch requests.
	PrefetchConcurrency int

	// PrefetchTimeout bounds how long a prefetch worker waits for one page.
	PrefetchTimeout time.Duration
}

// DefaultConfig returns the default pagination configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:            DefaultPageSize,
		PrefetchNext:        true,
		PrefetchPages:       DefaultPrefetchPages,
		PrefetchConcurrency: DefaultPrefetchConcurrency,
		PrefetchTimeout:     DefaultPrefetchTimeout,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive (got %d)", c.PageSize)
	}
	if c.PrefetchPages < 0 {
		return fmt.Errorf("prefetch pages must not be negative (got %d)", c.PrefetchPages)
	}
	if c.PrefetchConcurrency < 0 {
		return fmt.Errorf("prefetch concurrency must not be negative (got %d)", c.PrefetchConcurrency)
	}
	return nil
}

// withDefaults fills unset values.
func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PrefetchPages < 0 {
		c.PrefetchPages = 0
	}
	if c.PrefetchConcurrency <= 0 {
		c.PrefetchConcurrency = DefaultPrefetchConcurrency
	}
	if c.PrefetchTimeout <= 0 {
		c.PrefetchTimeout = DefaultPrefetchTimeout
	}
	return c
}

// TotalPages returns ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
