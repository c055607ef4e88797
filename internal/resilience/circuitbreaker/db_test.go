package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNewDBCircuitBreaker(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)

	if dcb.Breaker().Name() != "telemetry-db" {
		t.Errorf("expected telemetry-db breaker, got %q", dcb.Breaker().Name())
	}
	if dcb.State() != StateClosed {
		t.Errorf("expected initial state to be CLOSED, got %s", dcb.State())
	}
}

func TestDBCircuitBreaker_ExecContext_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)
	mock.ExpectExec("INSERT INTO telemetry_snapshots").
		WithArgs("snap-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := dcb.ExecContext(context.Background(), "INSERT INTO telemetry_snapshots (id) VALUES ($1)", "snap-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_OpensAfterFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreakerWithConfig(db, Config{
		Name:             "test-db",
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
	})
	dbErr := errors.New("connection refused")
	mock.ExpectExec("INSERT").WillReturnError(dbErr)
	mock.ExpectExec("INSERT").WillReturnError(dbErr)

	for i := 0; i < 2; i++ {
		if _, err := dcb.ExecContext(context.Background(), "INSERT INTO t VALUES (1)"); !errors.Is(err, dbErr) {
			t.Fatalf("attempt %d: expected db error, got %v", i, err)
		}
	}
	if dcb.State() != StateOpen {
		t.Fatalf("expected OPEN, got %s", dcb.State())
	}

	_, err = dcb.ExecContext(context.Background(), "INSERT INTO t VALUES (1)")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("open circuit must not reach the database: %v", err)
	}
}

func TestDBCircuitBreaker_QueryContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)
	mock.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows, err := dcb.QueryContext(context.Background(), "SELECT count(*) FROM telemetry_snapshots")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = rows.Close() }()

	var n int
	if !rows.Next() {
		t.Fatal("expected a row")
	}
	if err := rows.Scan(&n); err != nil || n != 3 {
		t.Errorf("expected 3, got %d (err=%v)", n, err)
	}
}

func TestDBCircuitBreaker_PingContext(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)
	mock.ExpectPing()

	if err := dcb.PingContext(context.Background()); err != nil {
		t.Errorf("expected ping to succeed, got %v", err)
	}
}

func TestWrapDB_SharesRegistryBreaker(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	reg := NewRegistry()
	dcb := WrapDB(db, reg.Get(TelemetryDBConfig()))

	if dcb.Breaker() != reg.Get(TelemetryDBConfig()) {
		t.Error("expected the wrapped breaker to be the registry's instance")
	}
	if got := reg.Snapshot(); len(got) != 1 || got[0].Name != "telemetry-db" {
		t.Errorf("unexpected registry snapshot: %+v", got)
	}
}
