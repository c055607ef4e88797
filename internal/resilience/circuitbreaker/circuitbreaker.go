// Package circuitbreaker provides circuit breakers for the content service,
// the image probe and the telemetry database.
// It uses the github.com/sony/gobreaker/v2 library to prevent cascading failures.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"portfolio-content/internal/observability/metrics"
	"portfolio-content/internal/resilience/retry"
)

// ErrCircuitOpen is returned when a call is rejected without running the operation.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State names exposed through State and Snapshot.
const (
	StateClosed   = "CLOSED"
	StateOpen     = "OPEN"
	StateHalfOpen = "HALF_OPEN"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging and metrics
	Name string

	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold uint32

	// RecoveryTimeout is how long the circuit stays open before a probe is allowed
	RecoveryTimeout time.Duration
}

// ContentServiceConfig returns the configuration used for the headless CMS.
// Opens after 5 consecutive failures, probes again after 60 seconds.
func ContentServiceConfig() Config {
	return Config{
		Name:             "content-service",
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
	}
}

// ImageServiceConfig returns the configuration used for image probing.
// Opens after 3 consecutive failures, probes again after 30 seconds.
func ImageServiceConfig() Config {
	return Config{
		Name:             "image-service",
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Second,
	}
}

// TelemetryDBConfig returns the configuration used for the telemetry snapshot store.
func TelemetryDBConfig() Config {
	return Config{
		Name:             "telemetry-db",
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
	}
}

// Fallback produces a substitute result when the circuit rejects a call.
// The argument is ErrCircuitOpen wrapping the gobreaker rejection.
type Fallback func(err error) (any, error)

// CircuitBreaker wraps gobreaker.CircuitBreaker with fallback handling.
//
// While closed, every call runs and consecutive failures are counted; a success
// resets the count. When the count reaches FailureThreshold the circuit opens and
// calls are rejected until RecoveryTimeout has elapsed. After that a single probe
// call is let through (half-open): success closes the circuit, failure re-opens it.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker[any]
	cfg     Config
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 1
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 60 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    0, // counts are only cleared by state transitions
		Timeout:     cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller giving up says nothing about the dependency: the call is
		// neither a success nor a failure, and a cancelled half-open probe
		// frees its slot for the next caller.
		IsExcluded: isCancellation,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", stateName(from)),
				slog.String("to", stateName(to)))
			metrics.SetCircuitBreakerState(name, stateValue(to))
		},
	}

	metrics.SetCircuitBreakerState(cfg.Name, 0)

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		cfg:     cfg,
	}
}

// Execute runs fn through the circuit breaker.
//
// When the circuit rejects the call and fallback is non-nil, the fallback result
// is returned instead of the rejection. Failures of fn itself are always returned
// to the caller unchanged so they can decide what to do with them.
func (cb *CircuitBreaker) Execute(fn func() (any, error), fallback Fallback) (any, error) {
	result, err := cb.breaker.Execute(fn)
	if err == nil {
		return result, nil
	}
	if !isRejection(err) {
		return nil, err
	}

	rejected := errors.Join(ErrCircuitOpen, err)
	slog.Debug("circuit breaker rejected call",
		slog.String("circuit", cb.cfg.Name),
		slog.String("state", cb.State()))
	if fallback == nil {
		return nil, rejected
	}
	return fallback(rejected)
}

// State returns the current state as CLOSED, OPEN or HALF_OPEN.
func (cb *CircuitBreaker) State() string {
	return stateName(cb.breaker.State())
}

// FailureCount returns the consecutive failures recorded in the current state.
func (cb *CircuitBreaker) FailureCount() uint32 {
	return cb.breaker.Counts().ConsecutiveFailures
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.cfg.Name
}

// Config returns the configuration the breaker was created with.
func (cb *CircuitBreaker) Config() Config {
	return cb.cfg
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, retry.ErrAborted)
}

func isRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Status is a point-in-time view of one breaker.
type Status struct {
	Name             string `json:"name"`
	State            string `json:"state"`
	FailureCount     uint32 `json:"failure_count"`
	FailureThreshold uint32 `json:"failure_threshold"`
	RecoveryTimeout  string `json:"recovery_timeout"`
}

// Registry holds the breakers of a process so they can be reported together.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// Get returns the breaker registered under cfg.Name, creating it on first use.
func (r *Registry) Get(cfg Config) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[cfg.Name]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[cfg.Name]; ok {
		return cb
	}
	cb = New(cfg)
	r.breakers[cfg.Name] = cb
	return cb
}

// Snapshot returns the status of every registered breaker, sorted by name.
func (r *Registry) Snapshot() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.breakers))
	for _, cb := range r.breakers {
		out = append(out, Status{
			Name:             cb.cfg.Name,
			State:            cb.State(),
			FailureCount:     cb.FailureCount(),
			FailureThreshold: cb.cfg.FailureThreshold,
			RecoveryTimeout:  cb.cfg.RecoveryTimeout.String(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
