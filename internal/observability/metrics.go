// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "murmur_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedRequests counts feed queries by viewer kind and whether a tag filter was applied.
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_feed_requests_total",
		Help: "Total number of feed queries by viewer kind and tag filter usage",
	}, []string{"viewer", "filtered"})

	// ToggleOperations counts follow/like toggles by edge type and outcome.
	ToggleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_toggle_operations_total",
		Help: "Total number of follow/like toggle operations by edge and result",
	}, []string{"edge", "result"})
)

// InitMetrics creates the Prometheus middleware for the Fiber app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
