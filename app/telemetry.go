package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const serviceName = "subgame-dexd"

// Telemetry manages OpenTelemetry tracing and metrics
type Telemetry struct {
	tracer       *trace.TracerProvider
	meter        metric.Meter
	config       TelemetrySection
	shutdownFunc func(context.Context) error
}

// InitTelemetry installs the global tracer and meter providers. With
// telemetry disabled the otel no-op providers stay in place.
func InitTelemetry(cfg TelemetrySection) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{config: cfg}, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			attribute.String("component", "dex"),
		),
	)
	if err != nil {
		return nil, err
	}

	tel := &Telemetry{config: cfg}
	if cfg.TraceEndpoint != "" {
		if err := tel.initTracing(res); err != nil {
			return nil, err
		}
	}
	if err := tel.initMetrics(res); err != nil {
		return nil, err
	}
	return tel, nil
}

// initTracing sets up OTLP/HTTP tracing
func (t *Telemetry) initTracing(res *resource.Resource) error {
	if _, err := url.Parse(t.config.TraceEndpoint); err != nil {
		return err
	}

	endpoint := strings.TrimPrefix(t.config.TraceEndpoint, "http://")
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(
			trace.TraceIDRatioBased(t.config.SampleRate),
		)),
	)

	otel.SetTracerProvider(tp)
	t.tracer = tp
	t.shutdownFunc = tp.Shutdown
	return nil
}

// initMetrics bridges otel instruments into the default prometheus registry.
func (t *Telemetry) initMetrics(res *resource.Resource) error {
	if !t.config.PrometheusEnabled {
		return nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return err
	}

	provider := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)
	t.meter = provider.Meter(serviceName)
	return nil
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.shutdownFunc != nil {
		return t.shutdownFunc(ctx)
	}
	return nil
}

// HostMetrics records operation and block execution.
type HostMetrics struct {
	opCounter   metric.Int64Counter
	opDuration  metric.Float64Histogram
	blockHeight metric.Int64Gauge
	blockOps    metric.Int64Histogram
}

// NewHostMetrics creates the instruments on the global meter provider.
func NewHostMetrics() (*HostMetrics, error) {
	meter := otel.Meter(serviceName)

	opCounter, err := meter.Int64Counter(
		"dex.operation.total",
		metric.WithDescription("Total number of delivered operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	opDuration, err := meter.Float64Histogram(
		"dex.operation.processing_time",
		metric.WithDescription("Operation processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	blockHeight, err := meter.Int64Gauge(
		"dex.block.height",
		metric.WithDescription("Last committed block height"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return nil, err
	}

	blockOps, err := meter.Int64Histogram(
		"dex.block.operations",
		metric.WithDescription("Operations per block"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	return &HostMetrics{
		opCounter:   opCounter,
		opDuration:  opDuration,
		blockHeight: blockHeight,
		blockOps:    blockOps,
	}, nil
}

// RecordOperation records one delivered operation.
func (m *HostMetrics) RecordOperation(ctx context.Context, kind OperationKind, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}

	attrs := metric.WithAttributes(
		attribute.String("op.kind", string(kind)),
		attribute.String("op.status", status),
	)
	m.opCounter.Add(ctx, 1, attrs)
	m.opDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordBlock records a committed block.
func (m *HostMetrics) RecordBlock(ctx context.Context, height int64, operations int) {
	m.blockHeight.Record(ctx, height)
	m.blockOps.Record(ctx, int64(operations))
}

// TraceOperation opens a span around one operation.
func TraceOperation(ctx context.Context, kind OperationKind, height int64) (context.Context, oteltrace.Span) {
	ctx, span := otel.Tracer(serviceName).Start(ctx, "operation.deliver")
	span.SetAttributes(
		attribute.Int64("block.height", height),
		attribute.String("op.kind", string(kind)),
	)
	return ctx, span
}

// TraceBlock opens a span around block execution.
func TraceBlock(ctx context.Context, height int64) (context.Context, oteltrace.Span) {
	ctx, span := otel.Tracer(serviceName).Start(ctx, "block.execute")
	span.SetAttributes(attribute.Int64("block.height", height))
	return ctx, span
}
