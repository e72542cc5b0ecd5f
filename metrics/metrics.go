package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// EmailGenerationTotal counts generation requests by outcome.
	// outcome: generated, degraded, failed
	EmailGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_generation_total",
			Help: "Total number of email generation requests",
		},
		[]string{"provider", "outcome"},
	)

	// GeneratorCallDuration tracks upstream generator latency in seconds
	GeneratorCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generator_call_duration_seconds",
			Help:    "Generation service call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"provider", "status"},
	)
)

// RecordHTTPRequest records one handled request
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordGeneration records the outcome of a generation request
func RecordGeneration(provider, outcome string) {
	EmailGenerationTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordGeneratorCall records one upstream generator call
func RecordGeneratorCall(provider, status string, duration time.Duration) {
	GeneratorCallDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
}
