package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of product page cache hits",
		},
	)

	// CacheMisses tracks cache misses by reason
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of product page cache misses",
		},
		[]string{"reason"}, // "absent", "stale"
	)

	// CacheEntries tracks the number of stored pages, stale ones included
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_cache_entries",
			Help: "Current number of cached product pages",
		},
	)

	// CoalescedRequests tracks callers joined to an in-flight fetch
	CoalescedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_coalesced_total",
			Help: "Total number of page loads served by an already running fetch",
		},
	)

	// Invalidations tracks entries removed by filter invalidation
	Invalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_invalidations_total",
			Help: "Total number of cached pages removed by invalidation",
		},
	)

	// CacheErrors tracks failed loads
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "load"
	)
)
