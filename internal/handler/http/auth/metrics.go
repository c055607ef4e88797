package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operator_auth_checks_total",
			Help: "Operator endpoint authorization checks by result",
		},
		[]string{"result"}, // success | unauthorized | forbidden
	)

	authCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "operator_auth_check_duration_seconds",
			Help:    "Operator token verification duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)
)

func recordAuthResult(result string) {
	authChecksTotal.WithLabelValues(result).Inc()
}

func recordCheckDuration(d time.Duration) {
	authCheckDuration.Observe(d.Seconds())
}
