// Package config implements fail-open loading of component settings.
//
// A setting that is missing uses its default silently. A setting that is
// present but fails to parse or validate also uses its default, and the
// fallback is logged and counted in the component's ConfigMetrics, so a bad
// deployment value degrades the component instead of stopping it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// LoadEnv reads key, parses it and validates it. validate may be nil.
func LoadEnv[T any](key string, defaultValue T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: defaultValue}
	}
	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", key, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// Parsers for LoadEnv and Load.
func ParseString(s string) (string, error) { return s, nil }

func ParseInt(s string) (int, error) { return strconv.Atoi(s) }

func ParseBool(s string) (bool, error) { return strconv.ParseBool(s) }

func ParseDuration(s string) (time.Duration, error) { return time.ParseDuration(s) }

// Loader loads the settings of one component and reports fallbacks.
type Loader struct {
	metrics   *ConfigMetrics
	logger    *slog.Logger
	fallbacks []string
}

// NewLoader creates a Loader. metrics may be nil; a nil logger uses slog.Default.
func NewLoader(metrics *ConfigMetrics, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{metrics: metrics, logger: logger}
}

// Load reads one setting through l. field names the setting in logs and metrics.
func Load[T any](l *Loader, field, key string, defaultValue T, parse func(string) (T, error), validate func(T) error) T {
	res := LoadEnv(key, defaultValue, parse, validate)
	if res.FallbackApplied {
		l.fallbacks = append(l.fallbacks, field)
		if l.metrics != nil {
			l.metrics.RecordValidationError(field)
			l.metrics.RecordFallback(field)
		}
		l.logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("env_key", key),
			slog.String("warning", res.Warning))
	}
	return res.Value
}

// Finish publishes the load timestamp and fallback gauge and returns the
// fields that fell back, in load order.
func (l *Loader) Finish() []string {
	if l.metrics != nil {
		l.metrics.SetFallbackActive(len(l.fallbacks) > 0)
		l.metrics.RecordLoadTimestamp()
	}
	return l.fallbacks
}
