package circuitbreaker

import (
	"context"
	"database/sql"
)

// DBCircuitBreaker wraps a database connection with circuit breaker protection.
// The telemetry snapshot store uses it so an unavailable database turns into a
// fast failure instead of stalling scheduled exports.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// NewDBCircuitBreaker creates a database circuit breaker with TelemetryDBConfig.
func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, TelemetryDBConfig())
}

// NewDBCircuitBreakerWithConfig creates a new database circuit breaker with custom configuration.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{
		cb: New(cfg),
		db: db,
	}
}

// ExecContext executes a statement with circuit breaker protection.
// If the circuit is open, it returns ErrCircuitOpen without hitting the database.
func (dcb *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := dcb.cb.Execute(func() (any, error) {
		return dcb.db.ExecContext(ctx, query, args...)
	}, nil)
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryContext executes a query with circuit breaker protection.
func (dcb *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	result, err := dcb.cb.Execute(func() (any, error) {
		return dcb.db.QueryContext(ctx, query, args...)
	}, nil)
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// PingContext checks connectivity through the breaker.
func (dcb *DBCircuitBreaker) PingContext(ctx context.Context) error {
	_, err := dcb.cb.Execute(func() (any, error) {
		return nil, dcb.db.PingContext(ctx)
	}, nil)
	return err
}

// State returns the current state of the circuit breaker.
func (dcb *DBCircuitBreaker) State() string {
	return dcb.cb.State()
}

// Breaker exposes the underlying breaker, e.g. for registry reporting.
func (dcb *DBCircuitBreaker) Breaker() *CircuitBreaker {
	return dcb.cb
}

// WrapDB guards db with an existing breaker, e.g. one obtained from a Registry.
func WrapDB(db *sql.DB, cb *CircuitBreaker) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: cb, db: db}
}
