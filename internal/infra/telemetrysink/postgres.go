package telemetrysink

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/circuitbreaker"
)

const insertSnapshotQuery = `
INSERT INTO telemetry_snapshots (
    id, exported_at, total_requests, static_fallback_rate,
    cache_hit_rate, avg_response_time_ms, health, payload
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`

// Postgres stores snapshots in the telemetry_snapshots table.
// Writes go through a circuit breaker so an unavailable database fails fast.
type Postgres struct {
	db *circuitbreaker.DBCircuitBreaker
}

// NewPostgres creates a Postgres sink.
func NewPostgres(db *circuitbreaker.DBCircuitBreaker) *Postgres {
	return &Postgres{db: db}
}

// Name implements usage.Sink.
func (p *Postgres) Name() string { return "postgres" }

// Export implements usage.Sink.
func (p *Postgres) Export(ctx context.Context, s usage.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = p.db.ExecContext(ctx, insertSnapshotQuery,
		s.ID,
		s.ExportedAt,
		s.Metrics.TotalRequests,
		s.Metrics.StaticFallbackRate,
		s.Metrics.CacheHitRate,
		s.Metrics.AverageResponseTimeMs,
		string(s.Health),
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}
