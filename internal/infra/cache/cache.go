// Package cache provides the optional response cache in front of the content
// service: an in-process TTL cache and a Redis-backed cache shared between
// the API and the warm-up worker.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgconfig "portfolio-content/pkg/config"
)

// Cache stores serialized gateway results.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Name identifies the backend in logs and health output.
	Name() string
}

// Mode selects a cache backend.
type Mode string

// Cache backends.
const (
	ModeNone   Mode = "none"
	ModeMemory Mode = "memory"
	ModeRedis  Mode = "redis"
)

// Config holds cache settings.
type Config struct {
	Mode     Mode
	RedisURL string
	TTL      time.Duration
	Prefix   string
}

// LoadConfigFromEnv reads CONTENT_CACHE, REDIS_URL and CONTENT_CACHE_TTL.
func LoadConfigFromEnv() Config {
	return Config{
		Mode:     Mode(strings.ToLower(pkgconfig.GetEnvString("CONTENT_CACHE", string(ModeNone)))),
		RedisURL: pkgconfig.GetEnvString("REDIS_URL", "redis://localhost:6379/0"),
		TTL:      pkgconfig.GetEnvDuration("CONTENT_CACHE_TTL", 5*time.Minute),
		Prefix:   pkgconfig.GetEnvString("CONTENT_CACHE_PREFIX", "portfolio-content:"),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeNone, ModeMemory, ModeRedis:
	default:
		return fmt.Errorf("invalid cache mode %q: must be none, memory or redis", c.Mode)
	}
	if c.Mode != ModeNone {
		if err := pkgconfig.ValidatePositiveDuration(c.TTL); err != nil {
			return fmt.Errorf("invalid CONTENT_CACHE_TTL: %w", err)
		}
	}
	return nil
}

// Open builds the configured backend. ModeNone returns (nil, nil).
func Open(ctx context.Context, cfg Config) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeMemory:
		return NewMemory(), nil
	case ModeRedis:
		client, err := Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, cfg.Prefix), nil
	default:
		return nil, nil
	}
}
