// Package metrics exposes Prometheus instrumentation for the grading service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service registers.
type Metrics struct {
	GradingsTotal      *prometheus.CounterVec
	GradingDuration    prometheus.Histogram
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	AIProviderAttempts *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers all collectors on the given registerer. Passing
// prometheus.DefaultRegisterer wires them to the default /metrics output.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GradingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_gradings_total",
			Help: "Gradings performed, by outcome.",
		}, []string{"status"}),
		GradingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_grading_duration_seconds",
			Help:    "End-to-end duration of one grading.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_cache_hits_total",
			Help: "Grading results served from cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_cache_misses_total",
			Help: "Gradings that missed the cache.",
		}),
		AIProviderAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_ai_provider_attempts_total",
			Help: "AI provider attempts, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// NewForTest registers on a throwaway registry so parallel tests never
// collide on collector names.
func NewForTest() *Metrics {
	return New(prometheus.NewRegistry())
}
