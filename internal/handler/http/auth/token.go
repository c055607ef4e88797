// Package auth guards the operator endpoints of the API with HS256 bearer
// tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgconfig "portfolio-content/pkg/config"
)

// RoleOperator is the only role accepted by Guard.
const RoleOperator = "operator"

// MinSecretLength is the minimum HS256 key size in bytes.
const MinSecretLength = 32

// ErrWeakSecret is returned for secrets shorter than MinSecretLength.
var ErrWeakSecret = fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)

// Config holds the token settings shared by the API and the CLI.
type Config struct {
	// Secret signs and verifies tokens. Empty disables the guard.
	Secret []byte

	// TTL is the lifetime of issued tokens.
	// Default: 12h
	TTL time.Duration
}

// LoadConfigFromEnv reads TELEMETRY_JWT_SECRET and TELEMETRY_JWT_TTL.
func LoadConfigFromEnv() Config {
	return Config{
		Secret: []byte(pkgconfig.GetEnvString("TELEMETRY_JWT_SECRET", "")),
		TTL:    pkgconfig.GetEnvDuration("TELEMETRY_JWT_TTL", 12*time.Hour),
	}
}

// Enabled reports whether a secret is configured.
func (c Config) Enabled() bool { return len(c.Secret) > 0 }

// Validate rejects a configured secret that is too short. A missing secret
// is valid and leaves the operator endpoints open.
func (c Config) Validate() error {
	if c.Enabled() && len(c.Secret) < MinSecretLength {
		return ErrWeakSecret
	}
	if c.TTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}

// IssueToken signs an operator token for subject.
func IssueToken(cfg Config, subject string, now time.Time) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if !cfg.Enabled() {
		return "", errors.New("token secret is not configured")
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleOperator,
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.TTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
