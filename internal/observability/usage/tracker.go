package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgconfig "portfolio-content/pkg/config"
)

// DefaultCapacity is the number of events kept by default.
const DefaultCapacity = 1000

// Config holds tracker settings.
type Config struct {
	// Capacity bounds the buffer; the oldest events are dropped first.
	Capacity int

	// Verbose logs a one-line summary per tracked event.
	Verbose bool
}

// LoadConfigFromEnv reads TELEMETRY_CAPACITY and TELEMETRY_VERBOSE.
func LoadConfigFromEnv() Config {
	return Config{
		Capacity: pkgconfig.GetEnvInt("TELEMETRY_CAPACITY", DefaultCapacity),
		Verbose:  pkgconfig.GetEnvBool("TELEMETRY_VERBOSE", false),
	}
}

// Tracker buffers content request events. It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	verbose  bool
	logger   *slog.Logger
	now      func() time.Time
}

// NewTracker creates an empty tracker. A nil logger uses slog.Default.
func NewTracker(cfg Config, logger *slog.Logger) *Tracker {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		capacity: cfg.Capacity,
		verbose:  cfg.Verbose,
		logger:   logger,
		now:      time.Now,
	}
}

// Track appends a normalized copy of e and trims the buffer to capacity.
func (t *Tracker) Track(e Event) {
	e = e.clone()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = t.now()
	}
	if e.Source == "" {
		e.Source = SourceStatic
	}
	if e.ResponseTime < 0 {
		e.ResponseTime = 0
	}
	e.ResponseTimeMs = round2(float64(e.ResponseTime) / float64(time.Millisecond))

	t.mu.Lock()
	t.events = append(t.events, e)
	if over := len(t.events) - t.capacity; over > 0 {
		t.events = append([]Event(nil), t.events[over:]...)
	}
	t.mu.Unlock()

	if t.verbose {
		t.logger.LogAttrs(context.Background(), slog.LevelInfo, "content request",
			slog.String("summary", e.Summary()),
			slog.String("content_type", string(e.ContentType)),
			slog.String("source", string(e.Source)),
			slog.Bool("success", e.Success))
	}
}

// Events returns a copy of the buffered events, oldest first.
func (t *Tracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	for i, e := range t.events {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of buffered events.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Metrics derives metrics from the current buffer.
func (t *Tracker) Metrics() Metrics {
	return ComputeMetrics(t.Events())
}

// Dashboard derives the dashboard from the current buffer.
func (t *Tracker) Dashboard() Dashboard {
	return buildDashboard(t.Events(), t.now())
}

// Reset drops every buffered event.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}
