package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"portfolio-content/internal/observability/metrics"
)

// Snapshot is the exported form of the buffer: the events plus what was
// derived from them.
type Snapshot struct {
	ID              string    `json:"id"`
	ExportedAt      time.Time `json:"exported_at"`
	Health          Health    `json:"health"`
	Metrics         Metrics   `json:"metrics"`
	Recommendations []string  `json:"recommendations"`
	Events          []Event   `json:"events"`
}

// Snapshot captures the current buffer.
func (t *Tracker) Snapshot() Snapshot {
	events := t.Events()
	d := buildDashboard(events, t.now())
	return Snapshot{
		ID:              uuid.NewString(),
		ExportedAt:      d.GeneratedAt,
		Health:          d.Health,
		Metrics:         d.Metrics,
		Recommendations: d.Recommendations,
		Events:          events,
	}
}

// Sink receives exported snapshots.
type Sink interface {
	Name() string
	Export(ctx context.Context, s Snapshot) error
}

// Exporter sends tracker snapshots to every configured sink.
type Exporter struct {
	tracker *Tracker
	sinks   []Sink
	logger  *slog.Logger
}

// NewExporter creates an exporter. Nil sinks are ignored.
func NewExporter(tracker *Tracker, logger *slog.Logger, sinks ...Sink) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Exporter{tracker: tracker, sinks: kept, logger: logger}
}

// Sinks returns the names of the configured sinks.
func (e *Exporter) Sinks() []string {
	names := make([]string, len(e.sinks))
	for i, s := range e.sinks {
		names[i] = s.Name()
	}
	return names
}

// Export takes one snapshot and hands it to every sink. A failing sink does
// not stop the others; their errors are joined.
func (e *Exporter) Export(ctx context.Context) (Snapshot, error) {
	snap := e.tracker.Snapshot()
	var errs []error
	for _, s := range e.sinks {
		err := s.Export(ctx, snap)
		metrics.RecordTelemetryExport(s.Name(), err == nil)
		if err != nil {
			e.logger.Warn("telemetry export failed",
				slog.String("sink", s.Name()),
				slog.String("snapshot_id", snap.ID),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		e.logger.Info("telemetry exported",
			slog.String("sink", s.Name()),
			slog.String("snapshot_id", snap.ID),
			slog.Int("events", len(snap.Events)),
			slog.String("health", string(snap.Health)))
	}
	return snap, errors.Join(errs...)
}
