package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"portfolio-content/internal/pkg/config"
)

// Metrics holds the worker's Prometheus metrics.
type Metrics struct {
	*config.ConfigMetrics

	JobRunsTotal       *prometheus.CounterVec
	JobDurationSeconds *prometheus.HistogramVec
	JobLastSuccess     *prometheus.GaugeVec
}

// NewMetrics registers the worker metrics with reg (nil means the default registerer).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of worker job runs by job and status",
		}, []string{"job", "status"}),

		JobDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of worker job runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}, []string{"job"}),

		JobLastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run of each job",
		}, []string{"job"}),
	}
}

func (m *Metrics) recordRun(job, status string, seconds float64) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
	if status == "success" {
		m.JobLastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}
