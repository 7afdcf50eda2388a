package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// operationTotal counts service operations by name and result.
	operationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bjj_operation_total",
		Help: "Total service operations by operation and result",
	}, []string{"operation", "result"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bjj_operation_duration_seconds",
		Help:    "Service operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"operation"})

	catalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bjj_catalog_cache_total",
		Help: "Catalog cache lookups by outcome",
	}, []string{"outcome"})

	techniquesSeeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bjj_techniques_seeded_total",
		Help: "Techniques inserted by catalog seeding",
	})
)

// Observe records the outcome and latency of one service operation.
func Observe(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func CacheHit()  { catalogCacheTotal.WithLabelValues("hit").Inc() }
func CacheMiss() { catalogCacheTotal.WithLabelValues("miss").Inc() }

func Seeded(n int) {
	techniquesSeeded.Add(float64(n))
}
