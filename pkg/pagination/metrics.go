package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for pagination operations.
var (
	prefetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_prefetch_total",
		Help: "Total prefetched pages by result",
	}, []string{"result"}) // "ok", "error", "skipped"

	loadAllTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_load_all_total",
		Help: "Total full listing loads by result",
	}, []string{"result"}) // "complete", "partial", "cancelled"

	loadAllItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_all_items",
		Help:    "Number of products returned by full listing loads",
		Buckets: prometheus.ExponentialBuckets(100, 2, 10),
	})
)
