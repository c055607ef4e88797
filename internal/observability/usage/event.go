// Package usage records which source served each content request and derives
// health indicators from the recorded events.
//
// The Tracker keeps a bounded in-memory buffer. Every figure it reports is
// computed from the buffer on demand; nothing is counted incrementally.
package usage

import (
	"time"

	"portfolio-content/internal/domain/entity"
)

// Source identifies where the data of a content request came from.
type Source string

// Content sources.
const (
	SourceLive    Source = "live"
	SourceStatic  Source = "static"
	SourceCache   Source = "cache"
	SourcePreview Source = "preview"
)

// Sources lists every source in reporting order.
func Sources() []Source {
	return []Source{SourceLive, SourceStatic, SourceCache, SourcePreview}
}

// Event is one recorded content request.
type Event struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	ContentType entity.ContentType `json:"content_type"`
	Source      Source             `json:"source"`
	Success     bool               `json:"success"`

	// ResponseTime is zero when the request was not timed.
	ResponseTime   time.Duration     `json:"-"`
	ResponseTimeMs float64           `json:"response_time_ms,omitempty"`
	Error          string            `json:"error,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

func (e Event) clone() Event {
	if e.Metadata != nil {
		md := make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			md[k] = v
		}
		e.Metadata = md
	}
	return e
}
