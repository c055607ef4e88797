// Package telemetry exposes the content-layer usage telemetry over HTTP.
package telemetry

import (
	"net/http"

	"portfolio-content/internal/handler/http/respond"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/retry"
)

// Tracker is the subset of usage.Tracker used by the handlers.
type Tracker interface {
	Dashboard() usage.Dashboard
	Snapshot() usage.Snapshot
}

// AttemptSource returns the governor's recent attempt history.
type AttemptSource interface {
	RecentMetrics() []retry.RequestMetric
	ActiveRequests() int
}

// DashboardHandler returns the current dashboard.
type DashboardHandler struct{ Tracker Tracker }

// ServeHTTP returns the dashboard
// @Summary      Telemetry dashboard
// @Tags         telemetry
// @Produce      json
// @Success      200 {object} usage.Dashboard "Health, metrics and recommendations"
// @Security     BearerAuth
// @Failure      401 {object} object "Missing or invalid operator token"
// @Router       /api/telemetry/dashboard [get]
func (h DashboardHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, h.Tracker.Dashboard())
}

// ExportHandler returns a full snapshot of the event buffer as a download.
// Forwarding to the configured sinks is done by the worker, not here.
type ExportHandler struct{ Tracker Tracker }

// ServeHTTP downloads a snapshot
// @Summary      Export telemetry snapshot
// @Tags         telemetry
// @Produce      json
// @Success      200 {object} usage.Snapshot "Snapshot of every buffered event"
// @Security     BearerAuth
// @Failure      401 {object} object "Missing or invalid operator token"
// @Router       /api/telemetry/export [get]
func (h ExportHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	snap := h.Tracker.Snapshot()
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Disposition", `attachment; filename="telemetry-`+snap.ID+`.json"`)
	respond.JSON(w, http.StatusOK, snap)
}

// AttemptsHandler returns the governor's recent attempts.
type AttemptsHandler struct{ Governor AttemptSource }

// ServeHTTP lists recent attempts
// @Summary      Recent content-service attempts
// @Tags         telemetry
// @Produce      json
// @Success      200 {object} object "Active request count and attempt history"
// @Security     BearerAuth
// @Failure      401 {object} object "Missing or invalid operator token"
// @Router       /api/telemetry/attempts [get]
func (h AttemptsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, map[string]any{
		"active":   h.Governor.ActiveRequests(),
		"attempts": h.Governor.RecentMetrics(),
	})
}

// Register registers the telemetry routes with mux. gov may be nil.
func Register(mux *http.ServeMux, tracker Tracker, gov AttemptSource) {
	mux.Handle("GET /api/telemetry/dashboard", DashboardHandler{tracker})
	mux.Handle("GET /api/telemetry/export", ExportHandler{tracker})
	if gov != nil {
		mux.Handle("GET /api/telemetry/attempts", AttemptsHandler{gov})
	}
}
