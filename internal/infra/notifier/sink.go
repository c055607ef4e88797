package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio-content/internal/observability/usage"
	pkgconfig "portfolio-content/pkg/config"
)

// Config selects the alert webhooks and when they fire.
type Config struct {
	SlackWebhookURL   string
	DiscordWebhookURL string

	// MinHealth is the best health level that still alerts.
	// Default: fair
	MinHealth usage.Health

	// Cooldown suppresses repeated alerts at the same or a better level.
	// Default: 1h
	Cooldown time.Duration

	// Timeout bounds one webhook request.
	// Default: 10s
	Timeout time.Duration
}

// DefaultConfig returns the alert defaults with no webhooks configured.
func DefaultConfig() Config {
	return Config{
		MinHealth: usage.HealthFair,
		Cooldown:  time.Hour,
		Timeout:   10 * time.Second,
	}
}

// LoadConfigFromEnv reads the ALERT_* environment variables.
func LoadConfigFromEnv() Config {
	d := DefaultConfig()
	return Config{
		SlackWebhookURL:   pkgconfig.GetEnvString("ALERT_SLACK_WEBHOOK_URL", ""),
		DiscordWebhookURL: pkgconfig.GetEnvString("ALERT_DISCORD_WEBHOOK_URL", ""),
		MinHealth:         usage.Health(pkgconfig.GetEnvString("ALERT_MIN_HEALTH", string(d.MinHealth))),
		Cooldown:          pkgconfig.GetEnvDuration("ALERT_COOLDOWN", d.Cooldown),
		Timeout:           pkgconfig.GetEnvDuration("ALERT_TIMEOUT", d.Timeout),
	}
}

// Validate checks the thresholds.
func (c Config) Validate() error {
	var errs []error
	if severity(c.MinHealth) < 0 {
		errs = append(errs, fmt.Errorf("invalid ALERT_MIN_HEALTH %q: must be excellent, good, fair or poor", c.MinHealth))
	}
	if c.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("invalid ALERT_COOLDOWN: must not be negative"))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid ALERT_TIMEOUT: %w", err))
	}
	return errors.Join(errs...)
}

// Notifiers builds a notifier per configured webhook.
func (c Config) Notifiers(logger *slog.Logger) []Notifier {
	var out []Notifier
	if c.SlackWebhookURL != "" {
		out = append(out, NewSlackNotifier(c.SlackWebhookURL, c.Timeout, logger))
	}
	if c.DiscordWebhookURL != "" {
		out = append(out, NewDiscordNotifier(c.DiscordWebhookURL, c.Timeout, logger))
	}
	return out
}

// AlertSink is a usage.Sink that forwards unhealthy snapshots to a Notifier.
type AlertSink struct {
	notifier  Notifier
	minHealth usage.Health
	cooldown  time.Duration
	now       func() time.Time

	mu        sync.Mutex
	lastLevel int
	lastSent  time.Time
}

// NewAlertSink wraps n. Invalid cfg values fall back to the defaults.
func NewAlertSink(n Notifier, cfg Config) *AlertSink {
	d := DefaultConfig()
	if severity(cfg.MinHealth) < 0 {
		cfg.MinHealth = d.MinHealth
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = d.Cooldown
	}
	return &AlertSink{
		notifier:  n,
		minHealth: cfg.MinHealth,
		cooldown:  cfg.Cooldown,
		now:       time.Now,
		lastLevel: -1,
	}
}

// Name implements usage.Sink.
func (s *AlertSink) Name() string { return "alert:" + s.notifier.Name() }

// Export implements usage.Sink. Healthy snapshots are skipped. A repeated
// alert at the same or a better level is suppressed until the cooldown
// passes; a worsening level alerts immediately.
func (s *AlertSink) Export(ctx context.Context, snap usage.Snapshot) error {
	level := severity(snap.Health)
	if level < severity(s.minHealth) {
		s.mu.Lock()
		s.lastLevel = -1
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	now := s.now()
	if level <= s.lastLevel && now.Sub(s.lastSent) < s.cooldown {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.notifier.Notify(ctx, AlertFromSnapshot(snap)); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastLevel, s.lastSent = level, now
	s.mu.Unlock()
	return nil
}
