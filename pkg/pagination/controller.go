package pagination

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/catalog-client/pkg/cache"
	"github.com/Sternrassler/catalog-client/pkg/catalog"
	"github.com/Sternrassler/catalog-client/pkg/logging"
	"github.com/rs/zerolog"
)

// ErrInvalidPage is returned for negative page indices.
var ErrInvalidPage = errors.New("page index must not be negative")

// PageFetcher is the interface the upstream client must implement for single-page fetching
type PageFetcher interface {
	// FetchProducts fetches up to limit products starting at offset
	FetchProducts(ctx context.Context, filters catalog.Filters, limit, offset int) (catalog.Page, error)
}

// ProductsPage is a page in the shape exposed to UI callers.
type ProductsPage struct {
	Results []catalog.Product `json:"results"`
	Count   int               `json:"count"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
}

// Controller serves listing pages through the cache
type Controller struct {
	fetcher PageFetcher
	store   *cache.Store
	config  Config
	logger  zerolog.Logger
}

// New creates a new controller. Unset config values fall back to defaults.
func New(fetcher PageFetcher, store *cache.Store, config Config) *Controller {
	if store == nil {
		store = cache.NewStore(cache.DefaultConfig())
	}

	return &Controller{
		fetcher: fetcher,
		store:   store,
		config:  config.withDefaults(),
		logger:  logging.NewLogger("catalog-pagination"),
	}
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.config
}

// FetchPage returns one page for filters, from cache when valid.
// On an upstream fetch it schedules prefetch of the following pages if enabled.
func (c *Controller) FetchPage(ctx context.Context, page int, filters catalog.Filters) (catalog.Page, error) {
	p, err := c.fetchPage(ctx, page, filters, c.config.PrefetchNext)
	if err != nil {
		c.logger.Error().
			Err(err).
			Int("page", page).
			Msg("Page fetch failed")
		return catalog.Page{}, err
	}
	return p, nil
}

// GetProductsPage is FetchPage in the exposed results/count/page/limit shape.
func (c *Controller) GetProductsPage(ctx context.Context, page int, filters catalog.Filters) (ProductsPage, error) {
	p, err := c.FetchPage(ctx, page, filters)
	if err != nil {
		return ProductsPage{}, err
	}

	return ProductsPage{
		Results: p.Items,
		Count:   p.TotalCount,
		Page:    page,
		Limit:   c.config.PageSize,
	}, nil
}

func (c *Controller) fetchPage(ctx context.Context, page int, filters catalog.Filters, prefetch bool) (catalog.Page, error) {
	if page < 0 {
		return catalog.Page{}, fmt.Errorf("%w (got %d)", ErrInvalidPage, page)
	}

	key := cache.NewKey(filters, page)
	if entry, ok := c.store.Lookup(key); ok {
		return entry.Page(), nil
	}

	limit := c.config.PageSize
	entry, err := c.store.Load(ctx, key, func(ctx context.Context) (catalog.Page, error) {
		return c.fetcher.FetchProducts(ctx, key.Filters, limit, page*limit)
	})
	if err != nil {
		return catalog.Page{}, fmt.Errorf("fetch page %d: %w", page, err)
	}

	c.logger.Info().
		Str("key", key.String()).
		Int("items", len(entry.Items)).
		Int("count", entry.TotalCount).
		Msg("Page loaded")

	if prefetch {
		c.schedulePrefetch(ctx, page, key.Filters, c.config.PrefetchPages, entry.TotalCount)
	}

	return entry.Page(), nil
}

// Refresh drops cached pages matching filters and fetches page again.
func (c *Controller) Refresh(ctx context.Context, page int, filters catalog.Filters) (catalog.Page, error) {
	c.ClearCacheForFilters(filters)
	return c.FetchPage(ctx, page, filters)
}

// ClearCacheForFilters removes cached pages whose filters match; unset
// fields are wildcards. Returns the number of removed pages.
func (c *Controller) ClearCacheForFilters(filters catalog.Filters) int {
	return c.store.InvalidateWhere(cache.MatchFilters(filters))
}

// ClearCache removes every cached page.
func (c *Controller) ClearCache() {
	c.store.Clear()
}

// CacheStats returns the cache statistics.
func (c *Controller) CacheStats() cache.Stats {
	return c.store.Stats()
}
