package usage

import (
	"fmt"
	"math"
	"time"
)

// Metrics are the figures derived from a set of events.
// Rates are percentages rounded to two decimals.
type Metrics struct {
	TotalRequests         int            `json:"total_requests"`
	SuccessfulRequests    int            `json:"successful_requests"`
	FailedRequests        int            `json:"failed_requests"`
	BySource              map[Source]int `json:"by_source"`
	ByContentType         map[string]int `json:"by_content_type"`
	AverageResponseTimeMs float64        `json:"average_response_time_ms"`
	CacheHitRate          float64        `json:"cache_hit_rate"`
	StaticFallbackRate    float64        `json:"static_fallback_rate"`
	PreviewUsageRate      float64        `json:"preview_usage_rate"`
	FailureRate           float64        `json:"failure_rate"`
	LastEventAt           *time.Time     `json:"last_event_at,omitempty"`
}

// ComputeMetrics derives Metrics from events.
func ComputeMetrics(events []Event) Metrics {
	m := Metrics{
		TotalRequests: len(events),
		BySource:      make(map[Source]int, len(Sources())),
		ByContentType: make(map[string]int),
	}
	for _, s := range Sources() {
		m.BySource[s] = 0
	}

	var (
		timed int
		total time.Duration
	)
	for _, e := range events {
		if e.Success {
			m.SuccessfulRequests++
		} else {
			m.FailedRequests++
		}
		m.BySource[e.Source]++
		m.ByContentType[string(e.ContentType)]++
		if e.ResponseTime > 0 {
			timed++
			total += e.ResponseTime
		}
		if m.LastEventAt == nil || e.Timestamp.After(*m.LastEventAt) {
			ts := e.Timestamp
			m.LastEventAt = &ts
		}
	}

	if timed > 0 {
		m.AverageResponseTimeMs = round2(float64(total) / float64(timed) / float64(time.Millisecond))
	}
	m.CacheHitRate = percent(m.BySource[SourceCache], m.TotalRequests)
	m.StaticFallbackRate = percent(m.BySource[SourceStatic], m.TotalRequests)
	m.PreviewUsageRate = percent(m.BySource[SourcePreview], m.TotalRequests)
	m.FailureRate = percent(m.FailedRequests, m.TotalRequests)
	return m
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(n) * 100 / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summary is the one-line description logged for an event in verbose mode.
func (e Event) Summary() string {
	status := "ok"
	if !e.Success {
		status = "failed"
	}
	s := fmt.Sprintf("%s from %s (%s)", e.ContentType, e.Source, status)
	if e.ResponseTime > 0 {
		s += fmt.Sprintf(" in %dms", e.ResponseTime.Milliseconds())
	}
	if e.Error != "" {
		s += ": " + e.Error
	}
	return s
}
