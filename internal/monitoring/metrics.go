// Package monitoring exposes Prometheus metrics for the outbound API client
// and the query cache.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "senja_api_requests_total",
			Help: "Outbound requests to the events API",
		},
		[]string{"method", "path", "status"},
	)

	apiDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "senja_api_request_duration_seconds",
			Help:    "Outbound API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "senja_query_cache_lookups_total",
			Help: "Query cache lookups by family and outcome",
		},
		[]string{"family", "outcome"},
	)

	staleDiscards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "senja_query_stale_discards_total",
			Help: "Fetch results discarded because the family was invalidated mid-flight",
		},
		[]string{"family"},
	)
)

// ObserveAPIRequest records one outbound API call. status 0 means the
// request never produced a response (transport failure).
func ObserveAPIRequest(method, path string, status int, elapsed time.Duration) {
	apiRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	apiDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// CacheHit records a query cache hit for a key family.
func CacheHit(family string) {
	cacheLookups.WithLabelValues(family, "hit").Inc()
}

// CacheMiss records a query cache miss for a key family.
func CacheMiss(family string) {
	cacheLookups.WithLabelValues(family, "miss").Inc()
}

// StaleDiscard records a fetch result dropped due to a concurrent invalidation.
func StaleDiscard(family string) {
	staleDiscards.WithLabelValues(family).Inc()
}
