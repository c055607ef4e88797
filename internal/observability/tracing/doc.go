// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware opens a server span per request and the content gateway
// opens an internal span per fetch. Spans go to whatever provider is installed
// globally; without one they are no-ops.
//
// Example usage:
//
//	func fetch(ctx context.Context) (err error) {
//	    ctx, span := tracing.StartSpan(ctx, "content.fetch")
//	    defer func() { tracing.EndSpan(span, err) }()
//	    // ...
//	}
package tracing
