package usage

import (
	"fmt"
	"time"
)

// Health classifies the content layer by how often it falls back to static data.
type Health string

// Health levels.
const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthPoor      Health = "poor"
)

// Thresholds on the static fallback rate (percent).
const (
	excellentMaxFallback = 5
	goodMaxFallback      = 15
	fairMaxFallback      = 30
)

// Recommendation thresholds.
const (
	connectivityFallbackRate = 25
	investigateFailureRate   = 10
	slowResponseMs           = 2000
	lowCacheHitRate          = 20
)

// recentEventCount is the number of events included in a dashboard.
const recentEventCount = 10

// Dashboard is Metrics plus an interpretation of them.
type Dashboard struct {
	GeneratedAt     time.Time `json:"generated_at"`
	Health          Health    `json:"health"`
	Metrics         Metrics   `json:"metrics"`
	Recommendations []string  `json:"recommendations"`
	RecentEvents    []Event   `json:"recent_events"`
}

// Classify maps a static fallback rate to a Health level.
func Classify(staticFallbackRate float64) Health {
	switch {
	case staticFallbackRate <= excellentMaxFallback:
		return HealthExcellent
	case staticFallbackRate <= goodMaxFallback:
		return HealthGood
	case staticFallbackRate <= fairMaxFallback:
		return HealthFair
	default:
		return HealthPoor
	}
}

// Recommend returns operator hints for m. The result is never nil.
func Recommend(m Metrics) []string {
	out := []string{}
	if m.TotalRequests == 0 {
		return append(out, "No content requests recorded yet")
	}
	if m.StaticFallbackRate > connectivityFallbackRate {
		out = append(out, fmt.Sprintf("Static fallback rate is %.2f%%: check connectivity and credentials of the content service", m.StaticFallbackRate))
	}
	if m.FailureRate > investigateFailureRate {
		out = append(out, fmt.Sprintf("Failure rate is %.2f%%: investigate content service errors", m.FailureRate))
	}
	if m.AverageResponseTimeMs > slowResponseMs {
		out = append(out, fmt.Sprintf("Average response time is %.0fms: enable or extend response caching", m.AverageResponseTimeMs))
	}
	if m.BySource[SourceCache] > 0 && m.CacheHitRate < lowCacheHitRate {
		out = append(out, fmt.Sprintf("Cache hit rate is %.2f%%: review the cache TTL", m.CacheHitRate))
	}
	if m.PreviewUsageRate > 0 {
		out = append(out, "Preview mode is serving requests: disable it outside staging")
	}
	return out
}

func buildDashboard(events []Event, now time.Time) Dashboard {
	m := ComputeMetrics(events)
	recent := events
	if len(recent) > recentEventCount {
		recent = recent[len(recent)-recentEventCount:]
	}
	return Dashboard{
		GeneratedAt:     now,
		Health:          Classify(m.StaticFallbackRate),
		Metrics:         m,
		Recommendations: Recommend(m),
		RecentEvents:    recent,
	}
}
