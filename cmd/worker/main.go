// Command worker runs the scheduled background jobs: content cache warm-up,
// telemetry export and portfolio catalogue rebuilds.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-content/internal/app"
	"portfolio-content/internal/infra/worker"
	"portfolio-content/internal/observability/logging"
	"portfolio-content/internal/observability/tracing"
	pkgconfig "portfolio-content/pkg/config"
)

func main() {
	logger := logging.New(logging.OptionsFromEnv())
	slog.SetDefault(logger)

	tp := tracing.InitProvider("portfolio-content-worker", pkgconfig.GetEnvString("VERSION", "dev"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fail-open: invalid values fall back to defaults and are exported as metrics.
	metrics := worker.NewMetrics(nil)
	cfg := worker.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("warmup_schedule", cfg.WarmupSchedule),
		slog.String("export_schedule", cfg.ExportSchedule),
		slog.String("rebuild_schedule", cfg.RebuildSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("job_timeout", cfg.JobTimeout),
		slog.Int("health_port", cfg.HealthPort))

	a, err := app.New(ctx, app.Options{
		Logger:   logger,
		Database: true,
		Migrate:  pkgconfig.GetEnvBool("DB_MIGRATE_ON_START", true),
	})
	if err != nil {
		logger.Error("failed to initialise content layer", slog.Any("error", err))
		os.Exit(1)
	}

	scheduler, err := setupScheduler(logger, a, cfg, metrics)
	if err != nil {
		logger.Error("failed to set up scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	healthAddr := fmt.Sprintf(":%d", cfg.HealthPort)
	healthServer := worker.NewHealthServer(healthAddr, scheduler, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	scheduler.Start(ctx)
	healthServer.SetReady(true)
	logger.Info("worker started", slog.Int("jobs", len(scheduler.Status())))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.JobTimeout+5*time.Second)
	defer cancel()

	a.Governor.AbortAll()
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("jobs did not finish before shutdown deadline", slog.Any("error", err))
	}
	if _, err := a.Exporter.Export(shutdownCtx); err != nil {
		logger.Warn("final telemetry export incomplete", slog.Any("error", err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Warn("tracer provider shutdown failed", slog.Any("error", err))
	}
	if err := a.Close(); err != nil {
		logger.Error("failed to close resources", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

func setupScheduler(logger *slog.Logger, a *app.App, cfg worker.Config, metrics *worker.Metrics) (*worker.Scheduler, error) {
	scheduler, err := worker.NewScheduler(cfg, metrics, logger)
	if err != nil {
		return nil, err
	}
	jobs := []worker.Job{
		worker.RebuildJob(cfg.RebuildSchedule, a.Aggregator),
		worker.WarmupJob(cfg.WarmupSchedule, a.Gateway, logger),
		worker.ExportJob(cfg.ExportSchedule, a.Exporter),
	}
	for _, job := range jobs {
		if err := scheduler.Add(job); err != nil {
			return nil, fmt.Errorf("add job %s: %w", job.Name, err)
		}
	}
	return scheduler, nil
}
