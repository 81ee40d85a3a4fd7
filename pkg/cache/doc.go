// Package cache provides the in-memory product page cache.
//
// The store implements the caching policy of the catalog client:
//
// - Pages are keyed by normalized filters plus page index
// - Entries are served while younger than the TTL (5 minutes by default)
// - Expired entries stay in the store and read as misses until replaced
// - Concurrent loads of the same key share one upstream fetch
// - Failed loads store nothing, so the next caller retries
// - Entries can be dropped selectively by filter pattern
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	store := cache.NewStore(cache.DefaultConfig())
//
//	key := cache.NewKey(catalog.Filters{StoreID: "12"}, 0)
//
//	entry, err := store.Load(ctx, key, func(ctx context.Context) (catalog.Page, error) {
//		return apiClient.FetchProducts(ctx, key.Filters, 100, 0)
//	})
//	if err != nil {
//		return err
//	}
//
//	// Later reads within the TTL
//	if entry, ok := store.Fresh(key); ok {
//		fmt.Println(len(entry.Items))
//	}
//
// # Invalidation
//
// InvalidateWhere matches against the structured key filters. Use MatchFilters
// for partial matching where unset fields are wildcards:
//
//	store.InvalidateWhere(cache.MatchFilters(catalog.Filters{StoreID: "12"}))
//
// # Metrics
//
// The following Prometheus metrics are exposed:
//
//   - catalog_cache_hits_total: Fresh cache hits
//   - catalog_cache_misses_total{reason}: Misses (absent, stale)
//   - catalog_cache_entries: Stored pages, stale ones included
//   - catalog_cache_coalesced_total: Loads that shared an in-flight fetch
//   - catalog_cache_invalidations_total: Pages removed by invalidation
//   - catalog_cache_errors_total{operation}: Failed loads
package cache
