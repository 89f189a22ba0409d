package frames

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rotationComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frames_rotation_computations_total",
			Help: "Total number of rotation matrices computed.",
		},
		[]string{"axes"},
	)

	rotationCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frames_rotation_cache_hits_total",
			Help: "Total number of rotation requests served from the recompute cache.",
		},
		[]string{"axes"},
	)

	conversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frames_conversions_total",
			Help: "Total number of state conversions.",
		},
		[]string{"path"},
	)

	conversionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frames_conversion_duration_seconds",
			Help:    "State conversion duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"path"},
	)
)

func init() {
	prometheus.MustRegister(rotationComputations)
	prometheus.MustRegister(rotationCacheHits)
	prometheus.MustRegister(conversions)
	prometheus.MustRegister(conversionDurationSeconds)
}

// MetricsHandler returns the Prometheus metrics HTTP handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
