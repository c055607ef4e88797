// Package app wires the content layer shared by the API, the worker and the
// CLI: cache, content-service client, resilience stack, telemetry and the
// portfolio aggregator.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/cache"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/infra/db"
	"portfolio-content/internal/infra/imageprobe"
	"portfolio-content/internal/infra/notifier"
	"portfolio-content/internal/infra/staticdata"
	"portfolio-content/internal/infra/telemetrysink"
	"portfolio-content/internal/observability/slo"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/circuitbreaker"
	"portfolio-content/internal/resilience/retry"
	"portfolio-content/internal/usecase/content"
	"portfolio-content/internal/usecase/portfolio"
)

// Options selects the optional parts of the wiring.
type Options struct {
	Logger *slog.Logger

	// Database opens DATABASE_URL, when set, for the Postgres telemetry sink.
	Database bool

	// Migrate creates the telemetry schema after opening the database.
	Migrate bool

	// ConsoleSink, when non-nil, also writes every exported snapshot to it.
	ConsoleSink io.Writer

	// RequestTimeout, when positive, is the handler deadline the content
	// fetch policy must fit in.
	RequestTimeout time.Duration
}

// App holds the wired components. Optional components are nil when disabled.
type App struct {
	Logger     *slog.Logger
	Bundle     *staticdata.Bundle
	Cache      cache.Cache
	Client     *cms.Client
	Governor   *retry.Governor
	Breakers   *circuitbreaker.Registry
	Tracker    *usage.Tracker
	Gateway    *content.Gateway
	Aggregator *portfolio.Aggregator
	Prober     *imageprobe.Prober
	DB         *sql.DB
	DBBreaker  *circuitbreaker.DBCircuitBreaker
	Exporter   *usage.Exporter

	closers []func() error
}

// New builds the App from the environment.
//
// A missing content-service configuration is not an error: the gateway then
// serves bundled data. A cache or database that is configured but unreachable
// is logged and left out, so the process still starts in degraded mode.
func New(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		Logger:   logger,
		Governor: retry.NewGovernor(),
		Breakers: circuitbreaker.NewRegistry(),
	}

	bundle, err := staticdata.Default()
	if err != nil {
		return nil, fmt.Errorf("load bundled datasets: %w", err)
	}
	a.Bundle = bundle

	a.openCache(ctx)
	if err := a.openClient(); err != nil {
		a.Close()
		return nil, err
	}

	gatewayCfg := content.LoadConfigFromEnv()
	if err := gatewayCfg.Validate(); err != nil {
		a.Close()
		return nil, err
	}
	if err := gatewayCfg.CheckBudget(opts.RequestTimeout); err != nil {
		a.Close()
		return nil, err
	}

	a.Tracker = usage.NewTracker(usage.LoadConfigFromEnv(), logger)
	validator := validation.NewValidator(validation.DefaultOptions(), logger, validation.LogFindingsFromEnv())

	var fetcher content.Fetcher
	if a.Client != nil {
		fetcher = a.Client
	}
	gwOpts := []content.Option{
		content.WithConfig(gatewayCfg),
		content.WithLogger(logger),
		content.WithValidator(validator),
		content.WithBreaker(a.Breakers.Get(circuitbreaker.LoadConfigFromEnv(circuitbreaker.ContentServiceConfig(), "CONTENT"))),
	}
	if a.Cache != nil {
		gwOpts = append(gwOpts, content.WithCache(a.Cache))
	}
	a.Gateway = content.NewGateway(fetcher, bundle, a.Governor, a.Tracker, gwOpts...)
	a.Aggregator = portfolio.NewAggregator(bundle, a.Gateway, validation.DefaultOptions(), logger)
	a.Prober = imageprobe.New(nil, a.Breakers.Get(circuitbreaker.LoadConfigFromEnv(circuitbreaker.ImageServiceConfig(), "IMAGE")))

	if opts.Database {
		a.openDatabase(ctx, opts.Migrate)
	}
	a.Exporter = usage.NewExporter(a.Tracker, logger, a.sinks(opts.ConsoleSink)...)

	logger.Info("content layer initialised",
		slog.Bool("content_service_configured", a.Client != nil),
		slog.String("cache", a.Gateway.Status().Cache),
		slog.Bool("database", a.DB != nil),
		slog.Any("telemetry_sinks", a.Exporter.Sinks()))
	return a, nil
}

func (a *App) openCache(ctx context.Context) {
	c, err := cache.Open(ctx, cache.LoadConfigFromEnv())
	if err != nil {
		a.Logger.Warn("response cache unavailable, continuing without cache", slog.Any("error", err))
		return
	}
	if c == nil {
		return
	}
	a.Cache = c
	if closer, ok := c.(io.Closer); ok {
		a.closers = append(a.closers, closer.Close)
	}
}

func (a *App) openClient() error {
	client, err := cms.NewClient(cms.LoadConfigFromEnv(), nil)
	switch {
	case errors.Is(err, cms.ErrNotConfigured):
		a.Logger.Info("content service not configured, serving bundled content")
		return nil
	case err != nil:
		return fmt.Errorf("content service client: %w", err)
	}
	a.Client = client
	return nil
}

func (a *App) openDatabase(ctx context.Context, migrate bool) {
	dsn := db.DSNFromEnv()
	if dsn == "" {
		return
	}
	database, err := db.Open(ctx, dsn)
	if err != nil {
		a.Logger.Warn("telemetry database unavailable, postgres sink disabled", slog.Any("error", err))
		return
	}
	if migrate {
		if err := db.MigrateUp(ctx, database); err != nil {
			a.Logger.Warn("telemetry schema migration failed, postgres sink disabled", slog.Any("error", err))
			_ = database.Close()
			return
		}
	}
	a.DB = database
	a.DBBreaker = circuitbreaker.WrapDB(database,
		a.Breakers.Get(circuitbreaker.LoadConfigFromEnv(circuitbreaker.TelemetryDBConfig(), "TELEMETRY_DB")))
	a.closers = append(a.closers, database.Close)
}

func (a *App) sinks(console io.Writer) []usage.Sink {
	var sinks []usage.Sink
	if h := telemetrysink.NewHTTP(telemetrysink.LoadHTTPConfigFromEnv(), nil); h != nil {
		sinks = append(sinks, h)
	}
	if a.DBBreaker != nil {
		sinks = append(sinks, telemetrysink.NewPostgres(a.DBBreaker))
	}
	if console != nil {
		sinks = append(sinks, telemetrysink.NewWriter(console))
	}
	sinks = append(sinks, a.alertSinks()...)
	return append(sinks, slo.Default())
}

func (a *App) alertSinks() []usage.Sink {
	cfg := notifier.LoadConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		a.Logger.Warn("alert webhooks disabled: invalid configuration", slog.Any("error", err))
		return nil
	}
	var sinks []usage.Sink
	for _, n := range cfg.Notifiers(a.Logger) {
		sinks = append(sinks, notifier.NewAlertSink(n, cfg))
	}
	return sinks
}

// Close releases the cache and database connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
