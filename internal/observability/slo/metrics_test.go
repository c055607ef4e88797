package slo

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/observability/usage"
)

func TestRecorder_Export(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	assert.Equal(t, "slo", r.Name())

	err := r.Export(context.Background(), usage.Snapshot{
		Health: usage.HealthFair,
		Metrics: usage.Metrics{
			TotalRequests:         20,
			StaticFallbackRate:    20,
			FailureRate:           0,
			AverageResponseTimeMs: 250,
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.8, testutil.ToFloat64(r.LiveRatio), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(r.FailureRate), 1e-9)
	assert.InDelta(t, 0.25, testutil.ToFloat64(r.AverageLatency), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.HealthLevel))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Met.WithLabelValues(ObjectiveLiveRatio)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Met.WithLabelValues(ObjectiveFailureRate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Met.WithLabelValues(ObjectiveLatency)))
}

func TestRecorder_EmptySnapshotKeepsGauges(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.Observe(usage.Metrics{TotalRequests: 4, AverageResponseTimeMs: 100}, usage.HealthExcellent)
	r.Observe(usage.Metrics{}, usage.HealthPoor)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.LiveRatio))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.HealthLevel))
}

func TestDefault_IsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
