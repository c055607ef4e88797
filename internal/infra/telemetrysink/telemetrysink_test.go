package telemetrysink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/circuitbreaker"
)

func testSnapshot() usage.Snapshot {
	tr := usage.NewTracker(usage.Config{}, nil)
	tr.Track(usage.Event{ContentType: entity.ContentGallery, Source: usage.SourceLive, Success: true, ResponseTime: 120 * time.Millisecond})
	tr.Track(usage.Event{ContentType: entity.ContentGallery, Source: usage.SourceStatic, Success: false, Error: "timeout"})
	return tr.Snapshot()
}

func TestNewHTTP_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewHTTP(HTTPConfig{}, nil))
}

func TestHTTP_PostsSnapshot(t *testing.T) {
	var (
		got     usage.Snapshot
		headers http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	snap := testSnapshot()
	sink := NewHTTP(HTTPConfig{URL: srv.URL, Token: "secret"}, srv.Client())
	require.NoError(t, sink.Export(context.Background(), snap))

	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
	assert.Equal(t, snap.ID, headers.Get("X-Snapshot-ID"))
	assert.Equal(t, snap.ID, got.ID)
	assert.Len(t, got.Events, 2)
	assert.Equal(t, 50.0, got.Metrics.StaticFallbackRate)
}

func TestHTTP_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTP(HTTPConfig{URL: srv.URL}, srv.Client()).Export(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollectorRejected))
	assert.Contains(t, err.Error(), "503")
}

func TestHTTP_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	sink := NewHTTP(HTTPConfig{URL: srv.URL, Timeout: 20 * time.Millisecond}, srv.Client())
	assert.Error(t, sink.Export(context.Background(), testSnapshot()))
}

func TestLoadHTTPConfigFromEnv(t *testing.T) {
	t.Setenv("TELEMETRY_EXPORT_URL", "https://collector.example.com/v1/snapshots")
	t.Setenv("TELEMETRY_EXPORT_TIMEOUT", "3s")
	cfg := LoadHTTPConfigFromEnv()
	assert.Equal(t, "https://collector.example.com/v1/snapshots", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestPostgres_InsertsSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	snap := testSnapshot()
	mock.ExpectExec("INSERT INTO telemetry_snapshots").
		WithArgs(snap.ID, snap.ExportedAt, 2, 50.0, 0.0, 120.0, "poor", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sink := NewPostgres(circuitbreaker.NewDBCircuitBreaker(db))
	assert.Equal(t, "postgres", sink.Name())
	require.NoError(t, sink.Export(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO telemetry_snapshots").WillReturnError(errors.New("relation does not exist"))

	err = NewPostgres(circuitbreaker.NewDBCircuitBreaker(db)).Export(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	snap := testSnapshot()
	require.NoError(t, NewWriter(&buf).Export(context.Background(), snap))

	var decoded usage.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, snap.ID, decoded.ID)
	assert.Contains(t, buf.String(), "\n  \"health\"")
}
