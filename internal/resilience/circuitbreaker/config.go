package circuitbreaker

import (
	"fmt"
	"time"

	pkgconfig "portfolio-content/pkg/config"
)

// LoadConfigFromEnv overrides base with <prefix>_BREAKER_FAILURE_THRESHOLD
// and <prefix>_BREAKER_RECOVERY_TIMEOUT. Out-of-range values keep base.
//
// Example:
//
//	cfg := LoadConfigFromEnv(ContentServiceConfig(), "CONTENT")
func LoadConfigFromEnv(base Config, prefix string) Config {
	cfg := base
	threshold := pkgconfig.GetEnvInt(prefix+"_BREAKER_FAILURE_THRESHOLD", int(base.FailureThreshold))
	if pkgconfig.ValidateIntRange(threshold, 1, 100) == nil {
		cfg.FailureThreshold = uint32(threshold)
	}
	timeout := pkgconfig.GetEnvDuration(prefix+"_BREAKER_RECOVERY_TIMEOUT", base.RecoveryTimeout)
	if pkgconfig.ValidateDurationRange(timeout, time.Second, time.Hour) == nil {
		cfg.RecoveryTimeout = timeout
	}
	return cfg
}

// Validate checks the breaker settings.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("circuit breaker name is required")
	}
	if c.FailureThreshold == 0 {
		return fmt.Errorf("circuit breaker %s: failure threshold must be positive", c.Name)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.RecoveryTimeout); err != nil {
		return fmt.Errorf("circuit breaker %s: recovery timeout: %w", c.Name, err)
	}
	return nil
}
