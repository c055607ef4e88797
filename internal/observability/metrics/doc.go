// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Content gateway metrics (fetch count by source, fetch duration)
//   - Validation, circuit breaker and request governor metrics
//   - Usage telemetry export and portfolio catalogue gauges
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "portfolio-content/internal/observability/metrics"
//
//	func fetch(ctx context.Context) {
//	    start := time.Now()
//	    res := gateway.Articles(ctx, content.ArticleQuery{})
//	    metrics.RecordGatewayFetch("articles", string(res.Source), time.Since(start))
//	}
package metrics
