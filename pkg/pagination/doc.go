// Package pagination provides page-oriented access to the marketplace product listing.
//
// The controller sits between UI callers and the product API. Every page read
// goes through the cache store: a valid entry is returned without a network
// call, a miss performs one upstream request per key no matter how many
// callers ask concurrently.
//
// Example usage:
//
//	store := cache.NewStore(cache.DefaultConfig())
//	ctrl := pagination.New(apiClient, store, pagination.DefaultConfig())
//
//	page, err := ctrl.GetProductsPage(ctx, 0, catalog.Filters{StoreID: "12"})
//
//	all, err := ctrl.LoadAll(ctx, catalog.Filters{}, func(loaded, total int) {
//		fmt.Printf("%d/%d\n", loaded, total)
//	})
//
// The controller:
//   - Serves valid cached pages without touching the network
//   - Prefetches the next pages (default 2) on a detached worker pool
//   - Never prefetches past the last page and never surfaces prefetch errors
//   - Loads full listings page by page, reporting progress in page order
//   - Returns partial results when a full load hits a failing page
//
// Session keeps the navigation state (current page, total, loading, last
// error, load progress) for one filter set.
package pagination
