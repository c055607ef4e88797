package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"portfolio-content/internal/handler/http/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Output: &buf})

	logger.Info("gateway fetch", slog.String("content_type", "articles"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gateway fetch", entry["msg"])
	assert.Equal(t, "articles", entry["content_type"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: "text", Output: &buf})

	logger.Info("catalogue built", slog.Int("entries", 12))

	out := buf.String()
	assert.Contains(t, out, "msg=\"catalogue built\"")
	assert.Contains(t, out, "entries=12")
}

func TestNew_DebugFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Output: &buf})

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	logger = New(Options{Level: "debug", Output: &buf})
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")

	opts := OptionsFromEnv()
	assert.Equal(t, "warn", opts.Level)
	assert.Equal(t, "text", opts.Format)
	assert.NotNil(t, NewLogger())
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := requestid.WithRequestID(context.Background(), "550e8400-e29b-41d4-a716-446655440000")
	WithRequestID(ctx, base).Info("test message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", entry["request_id"])
}

func TestWithRequestID_EmptyRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logger := WithRequestID(context.Background(), base)
	assert.Same(t, base, logger)

	logger.Info("no id")
	assert.False(t, strings.Contains(buf.String(), "request_id"))
}

func TestFromContext(t *testing.T) {
	t.Run("returns default when absent", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("returns stored logger with request id", func(t *testing.T) {
		var buf bytes.Buffer
		stored := slog.New(slog.NewJSONHandler(&buf, nil))

		ctx := WithLogger(context.Background(), stored)
		ctx = requestid.WithRequestID(ctx, "req-42")
		FromContext(ctx).Info("from context")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "req-42", entry["request_id"])
		assert.Equal(t, "from context", entry["msg"])
	})
}
