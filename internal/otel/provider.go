// Package otel wires OpenTelemetry tracing for GeoMaster processes. Only
// `geomaster serve` installs a provider; the calculation and containment
// handlers in internal/httpapi start their spans from it.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Setup exports request spans over OTLP/HTTP to endpoint
// (GEOMASTER_OTEL_ENDPOINT). serviceName becomes the service.name resource
// attribute, which is how a collector tells GeoMaster's calculation spans
// apart from other services'.
//
// With no endpoint, or with enabled (GEOMASTER_OTEL_ENABLED) false, nothing
// is registered: handlers keep the global no-op provider and Setup returns
// a shutdown that does nothing.
//
// Every span is sampled. The returned shutdown flushes batched spans; serve
// calls it with GEOMASTER_SHUTDOWN_TIMEOUT after the HTTP server stops.
func Setup(ctx context.Context, serviceName, endpoint string, enabled bool) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	endpoint = strings.TrimSpace(endpoint)
	if !enabled || endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
