package cms

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "portfolio-content/pkg/config"
)

// Config holds the connection settings of the content service.
type Config struct {
	// SpaceID identifies the content space.
	SpaceID string

	// AccessToken is the delivery token for published content.
	AccessToken string

	// PreviewToken is the token for draft content. Used when Preview is true.
	PreviewToken string

	// Preview switches the client to the preview host and token.
	Preview bool

	// Environment is the content environment.
	// Default: master
	Environment string

	// Host is the delivery API base URL.
	Host string

	// PreviewHost is the preview API base URL.
	PreviewHost string

	// RateLimitRPS is the client-side request rate.
	// Default: 7 (the upstream delivery limit is a little higher)
	RateLimitRPS float64

	// RateLimitBurst is the token bucket size.
	// Default: 7
	RateLimitBurst int

	// MaxBodySize caps response bodies in bytes.
	// Default: 10MB
	MaxBodySize int64

	// HTTPTimeout bounds a single HTTP exchange. The gateway applies its own,
	// usually shorter, deadline on top of this.
	// Default: 15s
	HTTPTimeout time.Duration
}

// DefaultConfig returns a Config with defaults and no credentials.
func DefaultConfig() Config {
	return Config{
		Environment:    "master",
		Host:           "https://cdn.contentful.com",
		PreviewHost:    "https://preview.contentful.com",
		RateLimitRPS:   7,
		RateLimitBurst: 7,
		MaxBodySize:    10 * 1024 * 1024,
		HTTPTimeout:    15 * time.Second,
	}
}

// LoadConfigFromEnv reads the CONTENT_* environment variables.
func LoadConfigFromEnv() Config {
	d := DefaultConfig()
	return Config{
		SpaceID:        pkgconfig.GetEnvString("CONTENT_SPACE_ID", ""),
		AccessToken:    pkgconfig.GetEnvString("CONTENT_ACCESS_TOKEN", ""),
		PreviewToken:   pkgconfig.GetEnvString("CONTENT_PREVIEW_TOKEN", ""),
		Preview:        pkgconfig.GetEnvBool("CONTENT_PREVIEW", false),
		Environment:    pkgconfig.GetEnvString("CONTENT_ENVIRONMENT", d.Environment),
		Host:           pkgconfig.GetEnvString("CONTENT_HOST", d.Host),
		PreviewHost:    pkgconfig.GetEnvString("CONTENT_PREVIEW_HOST", d.PreviewHost),
		RateLimitRPS:   pkgconfig.GetEnvFloat("CONTENT_RATE_LIMIT_RPS", d.RateLimitRPS),
		RateLimitBurst: pkgconfig.GetEnvInt("CONTENT_RATE_LIMIT_BURST", d.RateLimitBurst),
		MaxBodySize:    pkgconfig.GetEnvInt64("CONTENT_MAX_BODY_SIZE", d.MaxBodySize),
		HTTPTimeout:    pkgconfig.GetEnvDuration("CONTENT_HTTP_TIMEOUT", d.HTTPTimeout),
	}
}

// Configured reports whether credentials for the selected mode are present.
// An unconfigured client is an expected deployment state, not an error.
func (c Config) Configured() bool {
	return c.SpaceID != "" && c.token() != ""
}

func (c Config) token() string {
	if c.Preview {
		return c.PreviewToken
	}
	return c.AccessToken
}

func (c Config) baseURL() string {
	host := c.Host
	if c.Preview {
		host = c.PreviewHost
	}
	return strings.TrimRight(host, "/")
}

// Validate checks the numeric settings. Missing credentials are not a
// validation failure; see Configured.
func (c Config) Validate() error {
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("%w: rate limit must be positive, got %v", ErrInvalidConfig, c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate limit burst must be at least 1, got %d", ErrInvalidConfig, c.RateLimitBurst)
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("%w: max body size must be positive, got %d", ErrInvalidConfig, c.MaxBodySize)
	}
	if c.Environment == "" {
		return fmt.Errorf("%w: environment is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.baseURL(), "http://") && !strings.HasPrefix(c.baseURL(), "https://") {
		return fmt.Errorf("%w: host must be an http(s) URL, got %q", ErrInvalidConfig, c.baseURL())
	}
	return nil
}
