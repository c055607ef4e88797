package db

import (
	"context"
	"database/sql"
)

// MigrateUp creates the telemetry snapshot schema. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS telemetry_snapshots (
    id                    UUID PRIMARY KEY,
    exported_at           TIMESTAMPTZ NOT NULL,
    total_requests        INTEGER NOT NULL,
    static_fallback_rate  DOUBLE PRECISION NOT NULL,
    cache_hit_rate        DOUBLE PRECISION NOT NULL,
    avg_response_time_ms  DOUBLE PRECISION NOT NULL,
    health                VARCHAR(16) NOT NULL,
    payload               JSONB NOT NULL
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_telemetry_snapshots_exported_at ON telemetry_snapshots(exported_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_telemetry_snapshots_health ON telemetry_snapshots(health)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the telemetry snapshot schema.
// Use with caution: this deletes every stored snapshot.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_telemetry_snapshots_health`,
		`DROP INDEX IF EXISTS idx_telemetry_snapshots_exported_at`,
		`DROP TABLE IF EXISTS telemetry_snapshots`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
