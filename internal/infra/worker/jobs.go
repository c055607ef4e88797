package worker

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/usecase/content"
	"portfolio-content/internal/usecase/portfolio"
)

// Job names.
const (
	JobWarmup  = "content_warmup"
	JobExport  = "telemetry_export"
	JobRebuild = "portfolio_rebuild"
)

// Warmer refreshes the shared content cache.
type Warmer interface {
	Warm(ctx context.Context) content.WarmReport
}

// Exporter sends a telemetry snapshot to its sinks.
type Exporter interface {
	Export(ctx context.Context) (usage.Snapshot, error)
}

// Builder rebuilds the portfolio catalogue.
type Builder interface {
	Build(ctx context.Context) (*portfolio.Catalogue, error)
}

// WarmupJob warms every content shape. It fails when every shape fell back
// to static data, which means the content service is unreachable.
func WarmupJob(schedule string, w Warmer, logger *slog.Logger) Job {
	return Job{
		Name:     JobWarmup,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			report := w.Warm(ctx)
			logger.Info("content cache warmed",
				slog.Int("shapes", len(report.Sources)),
				slog.Int("fallbacks", report.Fallbacks()),
				slog.Duration("duration", report.Duration))
			if n := len(report.Sources); n > 0 && report.Fallbacks() == n {
				return fmt.Errorf("all %d shapes served from static data", n)
			}
			return nil
		},
	}
}

// ExportJob exports telemetry once.
func ExportJob(schedule string, e Exporter) Job {
	return Job{
		Name:     JobExport,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			_, err := e.Export(ctx)
			return err
		},
	}
}

// RebuildJob rebuilds the portfolio catalogue.
func RebuildJob(schedule string, b Builder) Job {
	return Job{
		Name:     JobRebuild,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			_, err := b.Build(ctx)
			return err
		},
	}
}
