// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPRateLimitedTotal counts requests rejected by the per-IP limiter
	HTTPRateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"method"},
	)
)

// Content metrics track the gateway, validator and resilience layers
var (
	// GatewayRequestsTotal counts gateway fetches by content type and data source
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_gateway_requests_total",
			Help: "Total number of content gateway fetches",
		},
		[]string{"content_type", "source"}, // source: live, preview, cache, static
	)

	// GatewayDuration measures the wall time of a gateway fetch including fallback
	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_gateway_duration_seconds",
			Help:    "Content gateway fetch duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"content_type"},
	)

	// ValidationIssuesTotal counts validation findings by severity
	ValidationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_validation_issues_total",
			Help: "Total number of content validation issues",
		},
		[]string{"content_type", "severity"}, // severity: error, warning
	)

	// CircuitBreakerState exposes breaker state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// GovernorAttemptsTotal counts governed attempts by result
	GovernorAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_governor_attempts_total",
			Help: "Total number of request governor attempts",
		},
		[]string{"result"}, // result: success, failure, timeout, aborted
	)

	// TelemetryExportsTotal counts usage snapshot exports per sink
	TelemetryExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_exports_total",
			Help: "Total number of usage telemetry exports",
		},
		[]string{"sink", "status"},
	)

	// PortfolioEntries tracks catalogue size per category after the last build
	PortfolioEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_entries",
			Help: "Number of portfolio entries per category",
		},
		[]string{"category"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordRateLimited records one request rejected by rate limiting.
func RecordRateLimited(method string) {
	HTTPRateLimitedTotal.WithLabelValues(method).Inc()
}
