// Package slo publishes the content layer's service level indicators as
// Prometheus gauges, computed from each exported telemetry snapshot.
package slo

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"portfolio-content/internal/observability/usage"
)

// SLO targets.
const (
	// LiveRatioSLO is the minimum share of requests served without static fallback.
	LiveRatioSLO = 0.95

	// FailureRateSLO is the maximum share of failed content requests.
	FailureRateSLO = 0.01

	// AverageLatencySLO is the maximum mean content response time in seconds.
	AverageLatencySLO = 1.0
)

// Objective label values of content_slo_met.
const (
	ObjectiveLiveRatio   = "live_ratio"
	ObjectiveFailureRate = "failure_rate"
	ObjectiveLatency     = "average_latency"
)

// Recorder sets the SLI gauges. It implements usage.Sink so the telemetry
// exporter refreshes it on every export.
type Recorder struct {
	LiveRatio      prometheus.Gauge
	FailureRate    prometheus.Gauge
	AverageLatency prometheus.Gauge
	HealthLevel    prometheus.Gauge
	Met            *prometheus.GaugeVec
}

// NewRecorder registers the gauges with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		LiveRatio: f.NewGauge(prometheus.GaugeOpts{
			Name: "content_slo_live_ratio",
			Help: "Share of content requests served without static fallback (0-1), target: 0.95",
		}),
		FailureRate: f.NewGauge(prometheus.GaugeOpts{
			Name: "content_slo_failure_ratio",
			Help: "Share of failed content requests (0-1), target: 0.01",
		}),
		AverageLatency: f.NewGauge(prometheus.GaugeOpts{
			Name: "content_slo_average_latency_seconds",
			Help: "Mean content response time in seconds, target: 1.0",
		}),
		HealthLevel: f.NewGauge(prometheus.GaugeOpts{
			Name: "content_health_level",
			Help: "Dashboard health: 3 excellent, 2 good, 1 fair, 0 poor",
		}),
		Met: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "content_slo_met",
			Help: "1 when the objective is met by the latest snapshot, 0 otherwise",
		}, []string{"objective"}),
	}
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns the process-wide recorder registered with the default registry.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewRecorder(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

// Name implements usage.Sink.
func (r *Recorder) Name() string { return "slo" }

// Export implements usage.Sink. Snapshots without requests leave the gauges unchanged.
func (r *Recorder) Export(_ context.Context, s usage.Snapshot) error {
	r.Observe(s.Metrics, s.Health)
	return nil
}

// Observe updates the gauges from m.
func (r *Recorder) Observe(m usage.Metrics, health usage.Health) {
	if m.TotalRequests == 0 {
		return
	}
	live := 1 - m.StaticFallbackRate/100
	failure := m.FailureRate / 100
	latency := m.AverageResponseTimeMs / 1000

	r.LiveRatio.Set(live)
	r.FailureRate.Set(failure)
	r.AverageLatency.Set(latency)
	r.HealthLevel.Set(healthLevel(health))
	r.Met.WithLabelValues(ObjectiveLiveRatio).Set(boolGauge(live >= LiveRatioSLO))
	r.Met.WithLabelValues(ObjectiveFailureRate).Set(boolGauge(failure <= FailureRateSLO))
	r.Met.WithLabelValues(ObjectiveLatency).Set(boolGauge(latency <= AverageLatencySLO))
}

func healthLevel(h usage.Health) float64 {
	switch h {
	case usage.HealthExcellent:
		return 3
	case usage.HealthGood:
		return 2
	case usage.HealthFair:
		return 1
	default:
		return 0
	}
}

func boolGauge(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
