// Package metrics exposes the Prometheus metrics of the catalog client.
// All metrics are defined in their respective packages (cache, client, pagination)
// and registered with the default registerer via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all catalog metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Handler returns the /metrics scrape handler for the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total (Counter): Lookups answered by a valid entry
//   - catalog_cache_misses_total{reason="absent|stale"} (Counter): Lookups without a valid entry
//   - catalog_cache_entries (Gauge): Current number of stored entries
//   - catalog_cache_coalesced_total (Counter): Loads that joined an in-flight request
//   - catalog_cache_invalidations_total (Counter): Entries removed by invalidation
//   - catalog_cache_errors_total{operation} (Counter): Failed loads
//
// Request Metrics (pkg/client):
//   - catalog_requests_total{status} (Counter): Product API requests by HTTP status
//   - catalog_request_duration_seconds (Histogram): Request duration
//   - catalog_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Pagination Metrics (pkg/pagination):
//   - catalog_prefetch_total{result="ok|error|skipped"} (Counter): Prefetched pages
//   - catalog_load_all_total{result="complete|partial|cancelled"} (Counter): Full listing loads
//   - catalog_load_all_items (Histogram): Products returned per full listing load
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(catalog_cache_hits_total[5m])) /
//   (sum(rate(catalog_cache_hits_total[5m])) + sum(rate(catalog_cache_misses_total[5m])))
//
//   # Share of requests saved by coalescing
//   rate(catalog_cache_coalesced_total[5m]) / rate(catalog_requests_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(catalog_request_duration_seconds_bucket[5m]))
//
//   # Partial full loads
//   rate(catalog_load_all_total{result="partial"}[15m])
