package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	pkgconfig "portfolio-content/pkg/config"
)

// InitProvider installs a global tracer provider and the W3C trace-context
// propagator. Spans are sampled with TRACING_SAMPLE_RATIO (default 1) and
// honour the parent's decision. No exporter is attached: spans give every log
// line and response a trace id, and an exporter can be registered on the
// returned provider.
//
// Callers shut the provider down on exit.
func InitProvider(serviceName, version string) *sdktrace.TracerProvider {
	ratio := pkgconfig.GetEnvFloat("TRACING_SAMPLE_RATIO", 1)
	if pkgconfig.ValidateFloatRange(ratio, 0, 1) != nil {
		ratio = 1
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	))
	if err != nil {
		res = resource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp
}
