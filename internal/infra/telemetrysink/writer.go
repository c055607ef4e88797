package telemetrysink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"portfolio-content/internal/observability/usage"
)

// Writer prints snapshots as indented JSON, one document per export.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Name implements usage.Sink.
func (w *Writer) Name() string { return "writer" }

// Export implements usage.Sink.
func (w *Writer) Export(_ context.Context, s usage.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
