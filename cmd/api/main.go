// Command api serves the portfolio content API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "portfolio-content/docs" // swagger docs
	"portfolio-content/internal/app"
	"portfolio-content/internal/config"
	hhttp "portfolio-content/internal/handler/http"
	"portfolio-content/internal/handler/http/auth"
	hcontent "portfolio-content/internal/handler/http/content"
	"portfolio-content/internal/handler/http/middleware"
	hportfolio "portfolio-content/internal/handler/http/portfolio"
	"portfolio-content/internal/handler/http/requestid"
	htelemetry "portfolio-content/internal/handler/http/telemetry"
	"portfolio-content/internal/infra/worker"
	"portfolio-content/internal/observability/logging"
	"portfolio-content/internal/observability/slo"
	"portfolio-content/internal/observability/tracing"
	pkgconfig "portfolio-content/pkg/config"
	"portfolio-content/pkg/security/csp"
)

// @title           Portfolio Content API
// @version         1.0
// @description     Read-only content and portfolio API with static fallback and usage telemetry.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Operator token: "Bearer <jwt>" (see portfolio token)

func main() {
	logger := logging.New(logging.OptionsFromEnv())
	slog.SetDefault(logger)

	cfg := config.LoadServerConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	tp := tracing.InitProvider("portfolio-content-api", cfg.Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.Options{
		Logger:   logger,
		Database: true,
		Migrate:  cfg.MigrateOnStart,

		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Error("failed to initialise content layer", slog.Any("error", err))
		os.Exit(1)
	}

	buildCatalogue(ctx, logger, a, cfg.BuildTimeout)
	scheduler := startScheduler(ctx, logger, a)

	handler, limiter := setupServer(logger, a, cfg)
	go limiter.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(logger, srv, a, scheduler, cfg.ShutdownTimeout)
	if err := tp.Shutdown(context.Background()); err != nil {
		logger.Warn("tracer provider shutdown failed", slog.Any("error", err))
	}
}

func buildCatalogue(ctx context.Context, logger *slog.Logger, a *app.App, timeout time.Duration) {
	buildCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := a.Aggregator.Build(buildCtx); err != nil {
		logger.Error("initial portfolio build failed, retrying on schedule", slog.Any("error", err))
	}
}

// startScheduler keeps the in-process catalogue and the SLO gauges fresh.
func startScheduler(ctx context.Context, logger *slog.Logger, a *app.App) *worker.Scheduler {
	wcfg := worker.DefaultConfig()
	wcfg.RebuildSchedule = pkgconfig.GetEnvString("PORTFOLIO_REBUILD_SCHEDULE", wcfg.RebuildSchedule)
	wcfg.RunOnStart = false
	if err := wcfg.Validate(); err != nil {
		logger.Warn("invalid PORTFOLIO_REBUILD_SCHEDULE, using default", slog.Any("error", err))
		wcfg.RebuildSchedule = worker.DefaultConfig().RebuildSchedule
	}

	scheduler, err := worker.NewScheduler(wcfg, nil, logger)
	if err != nil {
		logger.Error("failed to create rebuild scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	jobs := []worker.Job{
		worker.RebuildJob(wcfg.RebuildSchedule, a.Aggregator),
		{
			Name:     "slo_refresh",
			Schedule: "* * * * *",
			Run: func(context.Context) error {
				d := a.Tracker.Dashboard()
				slo.Default().Observe(d.Metrics, d.Health)
				return nil
			},
		},
	}
	for _, job := range jobs {
		if err := scheduler.Add(job); err != nil {
			logger.Error("failed to schedule job", slog.String("job", job.Name), slog.Any("error", err))
			os.Exit(1)
		}
	}
	scheduler.Start(ctx)
	return scheduler
}

func setupServer(logger *slog.Logger, a *app.App, cfg config.ServerConfig) (http.Handler, *middleware.RateLimiter) {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	corsConfig.Logger = logger
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	cspConfig := middleware.LoadCSPConfig()
	cspConfig.DefaultPolicy = csp.StrictPolicy()
	cspConfig.PathPolicies = map[string]*csp.CSPBuilder{
		"/swagger/": csp.SwaggerUIPolicy(),
	}
	if !cspConfig.Enabled {
		logger.Warn("content security policy is DISABLED")
	}

	proxyConfig, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if proxyConfig.Enabled {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyConfig.AllowedCIDRs)))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	rlConfig := middleware.LoadRateLimitConfig()
	limiter := middleware.NewRateLimiter(rlConfig, middleware.NewIPExtractor(proxyConfig))
	if rlConfig.Enabled {
		logger.Info("rate limiting initialized",
			slog.Float64("rps", rlConfig.RPS),
			slog.Int("burst", rlConfig.Burst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	mux := http.NewServeMux()
	health := &hhttp.HealthHandler{
		Gateway:   a.Gateway,
		Catalogue: a.Aggregator,
		Breakers:  a.Breakers,
		Cache:     a.Cache,
		Version:   cfg.Version,
	}
	if a.DBBreaker != nil {
		health.DB = a.DBBreaker
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Catalogue: a.Aggregator})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hcontent.Register(mux, a.Gateway)
	hportfolio.Register(mux, a.Aggregator)

	// Telemetry exposes operational detail; it sits behind the operator
	// token guard when TELEMETRY_JWT_SECRET is set.
	authCfg := auth.LoadConfigFromEnv()
	if err := authCfg.Validate(); err != nil {
		logger.Error("invalid telemetry auth configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if !authCfg.Enabled() {
		logger.Warn("telemetry endpoints are unauthenticated - set TELEMETRY_JWT_SECRET")
	}
	telemetryMux := http.NewServeMux()
	htelemetry.Register(telemetryMux, a.Tracker, a.Governor)
	mux.Handle("/api/telemetry/", auth.Guard(authCfg)(telemetryMux))

	handler := hhttp.Chain(mux,
		middleware.CORS(corsConfig),
		middleware.NewCSPMiddleware(cspConfig).Middleware(),
		requestid.Middleware,
		limiter.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.ReadOnly(),
		hhttp.LimitRequestBody(cfg.MaxBodyBytes),
		hhttp.Timeout(cfg.RequestTimeout),
		hhttp.MetricsMiddleware,
	)
	return handler, limiter
}

// shutdown stops the server, cancels in-flight content requests so they fall
// back immediately, and flushes telemetry one last time.
func shutdown(logger *slog.Logger, srv *http.Server, a *app.App, scheduler *worker.Scheduler, timeout time.Duration) {
	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aborted := a.Governor.AbortAll()
	logger.Info("in-flight content requests aborted", slog.Int("count", aborted))

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("rebuild scheduler did not stop cleanly", slog.Any("error", err))
	}

	if snap, err := a.Exporter.Export(shutdownCtx); err != nil {
		logger.Warn("final telemetry export incomplete", slog.Any("error", err))
	} else {
		logger.Info("final telemetry exported",
			slog.String("snapshot_id", snap.ID),
			slog.Int("events", len(snap.Events)))
	}

	if err := a.Close(); err != nil {
		logger.Error("failed to close resources", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
