// Package db opens the Postgres database used by the telemetry snapshot sink
// and owns its schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pkgconfig "portfolio-content/pkg/config"
)

// ErrNoDSN is returned when DATABASE_URL is not set.
var ErrNoDSN = errors.New("DATABASE_URL not set")

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
// The sink writes a snapshot every few minutes, so the pool is small.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// DSNFromEnv returns DATABASE_URL, or "" when unset.
func DSNFromEnv() string {
	return pkgconfig.GetEnvString("DATABASE_URL", "")
}

// Open creates a connection pool for dsn, applies the pool settings from the
// environment and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cfg := getConnectionConfigFromEnv()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

// getConnectionConfigFromEnv reads connection pool configuration from environment variables.
// Non-positive values fall back to the defaults.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()

	if val := pkgconfig.GetEnvInt("DB_MAX_OPEN_CONNS", 0); val > 0 {
		cfg.MaxOpenConns = val
	}
	if val := pkgconfig.GetEnvInt("DB_MAX_IDLE_CONNS", 0); val > 0 {
		cfg.MaxIdleConns = val
	}
	if val := pkgconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", 0); val > 0 {
		cfg.ConnMaxLifetime = val
	}
	if val := pkgconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 0); val > 0 {
		cfg.ConnMaxIdleTime = val
	}

	return cfg
}
