// Package telemetrysink implements the destinations of telemetry snapshots:
// an HTTP collector, a Postgres table and a plain writer for console output.
package telemetrysink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"portfolio-content/internal/observability/usage"
	pkgconfig "portfolio-content/pkg/config"
)

// ErrCollectorRejected is returned when the collector answers with a non-2xx status.
var ErrCollectorRejected = errors.New("collector rejected snapshot")

// HTTPConfig configures the HTTP sink.
type HTTPConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// LoadHTTPConfigFromEnv reads TELEMETRY_EXPORT_URL, TELEMETRY_EXPORT_TOKEN and
// TELEMETRY_EXPORT_TIMEOUT.
func LoadHTTPConfigFromEnv() HTTPConfig {
	return HTTPConfig{
		URL:     pkgconfig.GetEnvString("TELEMETRY_EXPORT_URL", ""),
		Token:   pkgconfig.GetEnvString("TELEMETRY_EXPORT_TOKEN", ""),
		Timeout: pkgconfig.GetEnvDuration("TELEMETRY_EXPORT_TIMEOUT", 10*time.Second),
	}
}

// HTTP posts each snapshot as one JSON document.
type HTTP struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTP creates an HTTP sink. It returns nil when no URL is configured.
func NewHTTP(cfg HTTPConfig, client *http.Client) *HTTP {
	if cfg.URL == "" {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTP{cfg: cfg, client: client}
}

// Name implements usage.Sink.
func (h *HTTP) Name() string { return "http" }

// Export implements usage.Sink.
func (h *HTTP) Export(ctx context.Context, s usage.Snapshot) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Snapshot-ID", s.ID)
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post snapshot: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrCollectorRejected, resp.StatusCode)
	}
	return nil
}
