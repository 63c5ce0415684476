package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const metricExportInterval = time.Second * 5

const exporterDialTimeout = time.Second * 3

// transport picks the otlp protocol for one signal, grpc wins when both
// endpoints are set.
func (c OtlpConnConfig) transport() (string, string) {
	if c.GrpcEndpoint != "" {
		return "grpc", c.GrpcEndpoint
	}
	return "http", c.HttpEndpoint
}

func logExporter(signal string, c OtlpConnConfig) {
	kind, endpoint := c.transport()
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"type", kind,
		"endpoint", endpoint,
		"headers", len(c.Headers) > 0,
	)
}

// newTraceProvider batches the spans of scrape, import and query runs to
// the configured collector.
func newTraceProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	var (
		exporter trace.SpanExporter
		err      error
	)
	switch kind, endpoint := c.transport(); kind {
	case "grpc":
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(endpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	default:
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(endpoint),
			otlptracehttp.WithHeaders(c.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	logExporter("traces", c)

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

// newMetricProvider pushes the pipeline counters (rows scraped, cleaned,
// loaded) and the process stats on a fixed interval.
func newMetricProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	var (
		exporter metric.Exporter
		err      error
	)
	switch kind, endpoint := c.transport(); kind {
	case "grpc":
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(endpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	default:
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(endpoint),
			otlpmetrichttp.WithHeaders(c.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	logExporter("metrics", c)

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(metricExportInterval))),
		metric.WithResource(r),
	), nil
}
