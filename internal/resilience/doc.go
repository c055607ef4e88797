// Package resilience groups the fault-tolerance primitives used in front of
// the content service, the image service and the telemetry database.
//
//   - retry: the request governor. Per-attempt deadlines, bounded retries
//     with capped exponential backoff, and AbortAll for shutdown.
//   - circuitbreaker: per-dependency breakers on top of sony/gobreaker with
//     a fallback that only runs when the breaker rejects the call.
//
// The gateway composes them breaker-outside, governor-inside:
//
//	v, err := breaker.Execute(func() (any, error) {
//	    return governor.Execute(ctx, retry.DefaultConfig(), fetch)
//	}, nil)
package resilience
