// Package http provides the HTTP handlers and middleware of the content API:
// health and readiness probes, Prometheus metrics, request logging and
// panic recovery. Route handlers live in the content, portfolio and
// telemetry sub-packages.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"portfolio-content/internal/handler/http/respond"
	"portfolio-content/internal/infra/cache"
	"portfolio-content/internal/resilience/circuitbreaker"
	"portfolio-content/internal/usecase/content"
	"portfolio-content/internal/usecase/portfolio"
)

// Check status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// GatewayStatus reports the content gateway configuration.
type GatewayStatus interface {
	Status() content.Status
}

// CatalogueSource provides the current portfolio catalogue.
type CatalogueSource interface {
	Catalogue() *portfolio.Catalogue
}

// Pinger is implemented by *sql.DB and the database circuit breaker.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type cachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the state of every dependency.
//
// Only a missing catalogue makes the service unhealthy: an open breaker or
// an unconfigured content service means content is served from the bundled
// datasets, and a failing database only affects telemetry persistence.
type HealthHandler struct {
	Gateway   GatewayStatus
	Catalogue CatalogueSource
	Breakers  *circuitbreaker.Registry
	DB        Pinger
	Cache     cache.Cache
	Version   string
}

// ServeHTTP performs the checks and writes the report. The status code is
// 503 when unhealthy and 200 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"content_service":  h.checkContentService(),
		"portfolio":        h.checkCatalogue(),
		"circuit_breakers": h.checkBreakers(),
	}
	if h.DB != nil {
		checks["database"] = pingCheck(ctx, h.DB.PingContext)
	}
	if h.Cache != nil {
		checks["cache"] = h.checkCache(ctx)
	}

	status := StatusHealthy
	for _, c := range checks {
		switch c.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}
	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkContentService() CheckStatus {
	if h.Gateway == nil {
		return CheckStatus{Status: StatusDegraded, Message: "gateway not wired"}
	}
	s := h.Gateway.Status()
	details := map[string]any{
		"configured":    s.Configured,
		"preview":       s.Preview,
		"breaker_state": s.BreakerState,
		"cache":         s.Cache,
	}
	switch {
	case !s.Configured:
		return CheckStatus{Status: StatusDegraded, Message: "not configured, serving bundled content", Details: details}
	case s.BreakerState == circuitbreaker.StateOpen:
		return CheckStatus{Status: StatusDegraded, Message: "circuit open, serving bundled content", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) checkCatalogue() CheckStatus {
	if h.Catalogue == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}
	cat := h.Catalogue.Catalogue()
	if cat == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "catalogue not built"}
	}
	report := cat.Report()
	return CheckStatus{
		Status:  StatusHealthy,
		Details: map[string]any{
			"entries":    cat.Len(),
			"rejected":   len(report.Rejections),
			"live_items": report.LiveItems,
			"built_at":   cat.BuiltAt().UTC().Format(time.RFC3339),
		},
	}
}

func (h *HealthHandler) checkBreakers() CheckStatus {
	if h.Breakers == nil {
		return CheckStatus{Status: StatusHealthy}
	}
	snapshot := h.Breakers.Snapshot()
	details := make(map[string]any, len(snapshot))
	for _, s := range snapshot {
		details[s.Name] = s
	}
	// An open breaker has a fallback; report it without failing the check.
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) checkCache(ctx context.Context) CheckStatus {
	p, ok := h.Cache.(cachePinger)
	if !ok {
		return CheckStatus{Status: StatusHealthy, Details: map[string]any{"backend": h.Cache.Name()}}
	}
	c := pingCheck(ctx, p.Ping)
	c.Details = map[string]any{"backend": h.Cache.Name()}
	return c
}

func pingCheck(ctx context.Context, ping func(context.Context) error) CheckStatus {
	start := time.Now()
	if err := ping(ctx); err != nil {
		slog.Warn("health: dependency ping failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: StatusDegraded, Message: respond.SanitizeError(err)}
	}
	return CheckStatus{
		Status:  StatusHealthy,
		Details: map[string]any{"latency_ms": time.Since(start).Milliseconds()},
	}
}

// ReadyHandler answers readiness probes: ready once a catalogue has been built.
type ReadyHandler struct {
	Catalogue CatalogueSource
}

// ServeHTTP returns 200 "ready" or 503.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Catalogue == nil || h.Catalogue.Catalogue() == nil {
		http.Error(w, "catalogue not built", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

// ServeHTTP always returns 200 "alive".
func (LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("alive"))
}
