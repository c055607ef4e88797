// Package retry provides the request governor: deadline enforcement, bounded
// retries with exponential backoff, per-attempt metrics and a process-wide
// registry of in-flight requests that can be aborted together.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio-content/internal/observability/metrics"
)

// maxStoredMetrics bounds the attempt history kept for diagnostics.
const maxStoredMetrics = 100

var (
	// ErrTimeout indicates an attempt did not finish before its deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrAborted indicates the request was cancelled by AbortAll or by its parent context.
	ErrAborted = errors.New("operation aborted")
)

// Config holds the per-call policy of the governor.
type Config struct {
	// Timeout is the deadline of a single attempt.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int

	// BackoffMultiplier is the exponential base used between retries.
	BackoffMultiplier float64

	// BaseDelay is the wait before the first retry.
	// Default: 1s
	BaseDelay time.Duration

	// MaxDelay caps the wait between retries.
	// Default: 5s
	MaxDelay time.Duration

	// ErrorMessage prefixes timeout errors so callers can tell which call timed out.
	ErrorMessage string

	// RequestID identifies the logical request in the metric store.
	// A UUID is generated when empty.
	RequestID string
}

// DefaultConfig returns the policy used for content-service calls:
// 5s deadline, one retry, doubling backoff.
func DefaultConfig() Config {
	return Config{
		Timeout:           5 * time.Second,
		MaxRetries:        1,
		BackoffMultiplier: 2,
		BaseDelay:         time.Second,
		MaxDelay:          5 * time.Second,
		ErrorMessage:      "request timed out",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = d.BackoffMultiplier
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = d.ErrorMessage
	}
	return c
}

// Backoff returns the wait before retry number retry (1-based):
// min(BaseDelay * BackoffMultiplier^(retry-1), MaxDelay).
func (c Config) Backoff(retry int) time.Duration {
	c = c.withDefaults()
	if retry < 1 {
		retry = 1
	}
	delay := float64(c.BaseDelay) * math.Pow(c.BackoffMultiplier, float64(retry-1))
	if delay > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(delay)
}

// RequestMetric describes one attempt of a governed request.
type RequestMetric struct {
	ID         string        `json:"id"`
	RequestID  string        `json:"request_id"`
	Attempt    int           `json:"attempt"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
	Success    bool          `json:"success"`
	RetryCount int           `json:"retry_count"`
	Error      string        `json:"error,omitempty"`
}

// Governor runs operations under a deadline with bounded retries.
//
// A Governor is safe for concurrent use. Tests construct their own instance;
// the application wires a single one per process.
type Governor struct {
	mu       sync.Mutex
	metrics  []RequestMetric
	inflight map[string]context.CancelFunc
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewGovernor creates an empty Governor.
func NewGovernor() *Governor {
	return &Governor{
		inflight: make(map[string]context.CancelFunc),
		sleep:    sleepContext,
	}
}

// Execute runs op until it succeeds or the retry budget is spent.
//
// Each attempt receives its own context carrying the attempt deadline. The
// governor does not wait for an operation that ignores its context: when the
// deadline fires the attempt is cancelled and reported as a timeout. Retries
// are sequential and re-run the same op, so op must be idempotent.
//
// After the last attempt the last error is returned.
func (g *Governor) Execute(ctx context.Context, cfg Config, op func(context.Context) (any, error)) (any, error) {
	cfg = cfg.withDefaults()
	requestID := cfg.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	g.register(requestID, cancel)
	defer func() {
		g.unregister(requestID)
		cancel()
	}()

	var lastErr error
	for retryCount := 0; retryCount <= cfg.MaxRetries; retryCount++ {
		if retryCount > 0 {
			delay := cfg.Backoff(retryCount)
			slog.Debug("retrying governed request",
				slog.String("request_id", requestID),
				slog.Int("retry", retryCount),
				slog.Duration("delay", delay),
				slog.Any("error", lastErr))
			if err := g.sleep(reqCtx, delay); err != nil {
				return nil, fmt.Errorf("%w: %w (last error: %v)", ErrAborted, err, lastErr)
			}
		}

		result, err := g.attempt(reqCtx, cfg, requestID, retryCount, op)
		if err == nil {
			metrics.RecordGovernorAttempt("success")
			if retryCount > 0 {
				slog.Info("governed request succeeded after retry",
					slog.String("request_id", requestID),
					slog.Int("attempts", retryCount+1))
			}
			return result, nil
		}
		lastErr = err

		if reqCtx.Err() != nil {
			metrics.RecordGovernorAttempt("aborted")
			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}
		if errors.Is(err, ErrTimeout) {
			metrics.RecordGovernorAttempt("timeout")
		} else {
			metrics.RecordGovernorAttempt("failure")
		}
	}

	slog.Warn("governed request failed",
		slog.String("request_id", requestID),
		slog.Int("attempts", cfg.MaxRetries+1),
		slog.Any("error", lastErr))
	return nil, lastErr
}

// attempt runs a single try of op and records its metric.
func (g *Governor) attempt(ctx context.Context, cfg Config, requestID string, retryCount int, op func(context.Context) (any, error)) (any, error) {
	metric := RequestMetric{
		ID:         fmt.Sprintf("%s-%d", requestID, retryCount+1),
		RequestID:  requestID,
		Attempt:    retryCount + 1,
		StartTime:  time.Now(),
		RetryCount: retryCount,
	}

	attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		v, err := op(attemptCtx)
		done <- outcome{value: v, err: err}
	}()

	var (
		value any
		err   error
	)
	select {
	case out := <-done:
		value, err = out.value, out.err
		// An operation that honours its context reports DeadlineExceeded itself.
		if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = g.timeoutError(cfg, retryCount)
		}
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			err = g.timeoutError(cfg, retryCount)
		}
	}

	metric.EndTime = time.Now()
	metric.Duration = metric.EndTime.Sub(metric.StartTime)
	metric.DurationMs = metric.Duration.Milliseconds()
	metric.Success = err == nil
	if err != nil {
		metric.Error = err.Error()
	}
	g.store(metric)

	return value, err
}

func (g *Governor) timeoutError(cfg Config, retryCount int) error {
	return fmt.Errorf("%s after %v (attempt %d of %d): %w",
		cfg.ErrorMessage, cfg.Timeout, retryCount+1, cfg.MaxRetries+1, ErrTimeout)
}

func (g *Governor) store(m RequestMetric) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics = append(g.metrics, m)
	if over := len(g.metrics) - maxStoredMetrics; over > 0 {
		g.metrics = append([]RequestMetric(nil), g.metrics[over:]...)
	}
}

func (g *Governor) register(id string, cancel context.CancelFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inflight[id] = cancel
}

func (g *Governor) unregister(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, id)
}

// Metrics returns the recorded attempts of one logical request, oldest first.
func (g *Governor) Metrics(requestID string) []RequestMetric {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []RequestMetric
	for _, m := range g.metrics {
		if m.RequestID == requestID {
			out = append(out, m)
		}
	}
	return out
}

// RecentMetrics returns a copy of the retained attempt history (at most 100 entries).
func (g *Governor) RecentMetrics() []RequestMetric {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]RequestMetric(nil), g.metrics...)
}

// ActiveRequests returns the number of logical requests currently in flight.
func (g *Governor) ActiveRequests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}

// AbortAll cancels every in-flight request and returns how many were cancelled.
// Aborted requests are not retried.
func (g *Governor) AbortAll() int {
	g.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(g.inflight))
	for _, cancel := range g.inflight {
		cancels = append(cancels, cancel)
	}
	g.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if len(cancels) > 0 {
		slog.Info("aborted in-flight governed requests", slog.Int("count", len(cancels)))
	}
	return len(cancels)
}

// WithDeadline is the typed form of Governor.Execute.
func WithDeadline[T any](ctx context.Context, g *Governor, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := g.Execute(ctx, cfg, func(ctx context.Context) (any, error) {
		return op(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
