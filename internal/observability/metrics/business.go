package metrics

import (
	"time"
)

// RecordGatewayFetch records one gateway fetch and the source that served it.
//
// Example:
//
//	start := time.Now()
//	res := gateway.Articles(ctx)
//	metrics.RecordGatewayFetch("articles", string(res.Source), time.Since(start))
func RecordGatewayFetch(contentType, source string, duration time.Duration) {
	GatewayRequestsTotal.WithLabelValues(contentType, source).Inc()
	GatewayDuration.WithLabelValues(contentType).Observe(duration.Seconds())
}

// RecordValidationIssues records the error and warning counts of one validation run.
// Zero counts are skipped.
func RecordValidationIssues(contentType string, errors, warnings int) {
	if errors > 0 {
		ValidationIssuesTotal.WithLabelValues(contentType, "error").Add(float64(errors))
	}
	if warnings > 0 {
		ValidationIssuesTotal.WithLabelValues(contentType, "warning").Add(float64(warnings))
	}
}

// SetCircuitBreakerState publishes a breaker state transition.
// State should be 0 (closed), 1 (half-open) or 2 (open).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordGovernorAttempt records the outcome of one governed attempt.
// Result should be one of "success", "failure", "timeout" or "aborted".
func RecordGovernorAttempt(result string) {
	GovernorAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordTelemetryExport records the result of a usage snapshot export.
func RecordTelemetryExport(sink string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	TelemetryExportsTotal.WithLabelValues(sink, status).Inc()
}

// UpdatePortfolioEntries replaces the per-category catalogue gauges.
func UpdatePortfolioEntries(counts map[string]int) {
	PortfolioEntries.Reset()
	for category, n := range counts {
		PortfolioEntries.WithLabelValues(category).Set(float64(n))
	}
}
