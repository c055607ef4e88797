// Package config holds the settings of the API server process.
package config

import (
	"errors"
	"fmt"
	"time"

	pkgconfig "portfolio-content/pkg/config"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// Version is reported by /health.
	// Default: "dev"
	Version string

	// ReadHeaderTimeout guards against slow clients.
	// Default: 10s
	ReadHeaderTimeout time.Duration

	// RequestTimeout bounds one request through the handler chain.
	// Default: 15s. The content fetch policy's worst case plus one second
	// of fallback headroom must fit; the API refuses to start otherwise.
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown, including the final telemetry export.
	// Default: 10s
	ShutdownTimeout time.Duration

	// BuildTimeout bounds the initial portfolio catalogue build.
	// Default: 30s
	BuildTimeout time.Duration

	// MaxBodyBytes caps request bodies.
	// Default: 1MB
	MaxBodyBytes int64

	// MigrateOnStart creates the telemetry schema when a database is configured.
	// Default: true
	MigrateOnStart bool
}

// DefaultServerConfig returns the default API settings.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":8080",
		Version:           "dev",
		ReadHeaderTimeout: 10 * time.Second,
		RequestTimeout:    15 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		BuildTimeout:      30 * time.Second,
		MaxBodyBytes:      1 << 20,
		MigrateOnStart:    true,
	}
}

// LoadServerConfig reads SERVER_*, VERSION and DB_MIGRATE_ON_START.
func LoadServerConfig() ServerConfig {
	d := DefaultServerConfig()
	return ServerConfig{
		Addr:              pkgconfig.GetEnvString("SERVER_ADDR", d.Addr),
		Version:           pkgconfig.GetEnvString("VERSION", d.Version),
		ReadHeaderTimeout: pkgconfig.GetEnvDuration("SERVER_READ_HEADER_TIMEOUT", d.ReadHeaderTimeout),
		RequestTimeout:    pkgconfig.GetEnvDuration("SERVER_REQUEST_TIMEOUT", d.RequestTimeout),
		ShutdownTimeout:   pkgconfig.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", d.ShutdownTimeout),
		BuildTimeout:      pkgconfig.GetEnvDuration("PORTFOLIO_BUILD_TIMEOUT", d.BuildTimeout),
		MaxBodyBytes:      pkgconfig.GetEnvInt64("SERVER_MAX_BODY_BYTES", d.MaxBodyBytes),
		MigrateOnStart:    pkgconfig.GetEnvBool("DB_MIGRATE_ON_START", d.MigrateOnStart),
	}
}

// Validate checks every field and returns all problems joined.
func (c ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("SERVER_ADDR is required"))
	}
	durations := []struct {
		name     string
		value    time.Duration
		min, max time.Duration
	}{
		{"SERVER_READ_HEADER_TIMEOUT", c.ReadHeaderTimeout, time.Second, time.Minute},
		{"SERVER_REQUEST_TIMEOUT", c.RequestTimeout, time.Second, 5 * time.Minute},
		{"SERVER_SHUTDOWN_TIMEOUT", c.ShutdownTimeout, time.Second, 5 * time.Minute},
		{"PORTFOLIO_BUILD_TIMEOUT", c.BuildTimeout, time.Second, 10 * time.Minute},
	}
	for _, d := range durations {
		if err := pkgconfig.ValidateDurationRange(d.value, d.min, d.max); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", d.name, err))
		}
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("invalid SERVER_MAX_BODY_BYTES: must be positive, got %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}
