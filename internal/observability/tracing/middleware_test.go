package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"portfolio-content/internal/handler/http/requestid"
)

func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	exporter := installRecorder(t)

	handler := requestid.Middleware(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/content/articles", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "GET /api/content/articles" {
		t.Errorf("unexpected span name %q", span.Name)
	}
	if v, ok := attr(span.Attributes, "http.status_code"); !ok || v.AsInt64() != 200 {
		t.Errorf("expected http.status_code=200, got %v", v)
	}
	if v, ok := attr(span.Attributes, "request.id"); !ok || v.AsString() != "req-1" {
		t.Errorf("expected request.id=req-1, got %v", v)
	}
	if rr.Header().Get("X-Trace-Id") == "" {
		t.Error("expected X-Trace-Id response header")
	}
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter := installRecorder(t)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected propagated trace id, got %s", got)
	}
}

func TestMiddleware_ErrorAttribute(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{"5xx is marked", http.StatusServiceUnavailable, true},
		{"4xx is not marked", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := installRecorder(t)
			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			spans := exporter.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("expected 1 span, got %d", len(spans))
			}
			_, found := attr(spans[0].Attributes, "error")
			if found != tt.wantError {
				t.Errorf("error attribute present=%v, want %v", found, tt.wantError)
			}
		})
	}
}

func TestStartSpanAndEndSpan(t *testing.T) {
	exporter := installRecorder(t)

	_, span := StartSpan(context.Background(), "content.fetch", attribute.String("content.type", "articles"))
	EndSpan(span, errors.New("upstream 502"))

	_, ok := StartSpan(context.Background(), "content.fetch")
	EndSpan(ok, nil)

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if v, found := attr(spans[0].Attributes, "content.type"); !found || v.AsString() != "articles" {
		t.Errorf("expected content.type attribute, got %v", v)
	}
	if spans[1].Status.Code == codes.Error {
		t.Error("successful span must not carry error status")
	}
}
