// Package worker runs the background jobs of the content layer on cron
// schedules: cache warm-up, telemetry export and portfolio catalogue rebuild.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio-content/internal/pkg/config"
	pkgconfig "portfolio-content/pkg/config"
)

// Config holds the worker schedules and limits.
type Config struct {
	// WarmupSchedule refreshes every content shape in the shared cache.
	// Default: "*/10 * * * *"
	WarmupSchedule string

	// ExportSchedule sends a telemetry snapshot to the configured sinks.
	// Default: "*/15 * * * *"
	ExportSchedule string

	// RebuildSchedule rebuilds the portfolio catalogue.
	// Default: "5 * * * *"
	RebuildSchedule string

	// Timezone is the IANA zone the schedules are evaluated in.
	// Default: "UTC"
	Timezone string

	// JobTimeout bounds a single job run (10s-30m).
	// Default: 2m
	JobTimeout time.Duration

	// HealthPort serves /health, /health/ready, /health/jobs and /metrics.
	// Default: 9091
	HealthPort int

	// RunOnStart runs every job once before the first scheduled tick.
	RunOnStart bool
}

// DefaultConfig returns the default worker configuration.
func DefaultConfig() Config {
	return Config{
		WarmupSchedule:  "*/10 * * * *",
		ExportSchedule:  "*/15 * * * *",
		RebuildSchedule: "5 * * * *",
		Timezone:        "UTC",
		JobTimeout:      2 * time.Minute,
		HealthPort:      9091,
		RunOnStart:      true,
	}
}

// Validate checks every field and returns all problems joined.
func (c Config) Validate() error {
	var errs []error
	schedules := []struct{ name, value string }{
		{"warmup schedule", c.WarmupSchedule},
		{"export schedule", c.ExportSchedule},
		{"rebuild schedule", c.RebuildSchedule},
	}
	for _, s := range schedules {
		if err := pkgconfig.ValidateCronSchedule(s.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	if err := pkgconfig.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validJobTimeout(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := validPort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

func validJobTimeout(d time.Duration) error {
	return pkgconfig.ValidateDurationRange(d, 10*time.Second, 30*time.Minute)
}

func validPort(p int) error {
	return pkgconfig.ValidateIntRange(p, 1024, 65535)
}

// LoadConfigFromEnv reads the worker configuration. Invalid values fall back
// to their defaults, are logged, and are counted in m; the returned config is
// always valid.
//
// Environment variables: WORKER_WARMUP_SCHEDULE, TELEMETRY_EXPORT_SCHEDULE,
// WORKER_REBUILD_SCHEDULE, WORKER_TIMEZONE, WORKER_JOB_TIMEOUT,
// WORKER_HEALTH_PORT, WORKER_RUN_ON_START.
func LoadConfigFromEnv(logger *slog.Logger, m *Metrics) Config {
	d := DefaultConfig()
	var cm *config.ConfigMetrics
	if m != nil {
		cm = m.ConfigMetrics
	}
	l := config.NewLoader(cm, logger)

	cfg := Config{
		WarmupSchedule:  config.Load(l, "warmup_schedule", "WORKER_WARMUP_SCHEDULE", d.WarmupSchedule, config.ParseString, pkgconfig.ValidateCronSchedule),
		ExportSchedule:  config.Load(l, "export_schedule", "TELEMETRY_EXPORT_SCHEDULE", d.ExportSchedule, config.ParseString, pkgconfig.ValidateCronSchedule),
		RebuildSchedule: config.Load(l, "rebuild_schedule", "WORKER_REBUILD_SCHEDULE", d.RebuildSchedule, config.ParseString, pkgconfig.ValidateCronSchedule),
		Timezone:        config.Load(l, "timezone", "WORKER_TIMEZONE", d.Timezone, config.ParseString, pkgconfig.ValidateTimezone),
		JobTimeout:      config.Load(l, "job_timeout", "WORKER_JOB_TIMEOUT", d.JobTimeout, config.ParseDuration, validJobTimeout),
		HealthPort:      config.Load(l, "health_port", "WORKER_HEALTH_PORT", d.HealthPort, config.ParseInt, validPort),
		RunOnStart:      config.Load(l, "run_on_start", "WORKER_RUN_ON_START", d.RunOnStart, config.ParseBool, nil),
	}
	l.Finish()
	return cfg
}
