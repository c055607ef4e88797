// Package notifier posts content-layer health alerts to chat webhooks.
//
// Alerts are derived from telemetry snapshots. An AlertSink plugs into the
// telemetry exporter and forwards a snapshot to Slack or Discord only when the
// dashboard health is at or below the configured level.
package notifier

import (
	"context"
	"time"

	"portfolio-content/internal/observability/usage"
)

// Notifier delivers one alert.
// Implementations handle rate limiting and retries internally.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// Alert summarises a telemetry snapshot for humans.
type Alert struct {
	SnapshotID         string
	Health             usage.Health
	TotalRequests      int
	StaticFallbackRate float64
	FailureRate        float64
	CacheHitRate       float64
	Recommendations    []string
	At                 time.Time
}

// AlertFromSnapshot extracts the alert fields of s.
func AlertFromSnapshot(s usage.Snapshot) Alert {
	return Alert{
		SnapshotID:         s.ID,
		Health:             s.Health,
		TotalRequests:      s.Metrics.TotalRequests,
		StaticFallbackRate: s.Metrics.StaticFallbackRate,
		FailureRate:        s.Metrics.FailureRate,
		CacheHitRate:       s.Metrics.CacheHitRate,
		Recommendations:    s.Recommendations,
		At:                 s.ExportedAt,
	}
}

// severity orders health levels; higher is worse.
func severity(h usage.Health) int {
	switch h {
	case usage.HealthExcellent:
		return 0
	case usage.HealthGood:
		return 1
	case usage.HealthFair:
		return 2
	case usage.HealthPoor:
		return 3
	default:
		return -1
	}
}
