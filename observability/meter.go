package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter builds an OTLP/HTTP meter provider and installs it globally.
// The caller must shut it down on exit.
func InitMeter(ctx context.Context, cfg Config, id Identity) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(id)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the package meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the analyzer's instruments.
type Metrics struct {
	requestTotal       metric.Int64Counter
	requestDuration    metric.Float64Histogram
	requestActive      metric.Int64UpDownCounter
	completionTotal    metric.Int64Counter
	completionDuration metric.Float64Histogram
	stageTotal         metric.Int64Counter
	stageDuration      metric.Float64Histogram
}

// NewMetrics creates instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requestTotal, err = meter.Int64Counter("http.request.total",
		metric.WithDescription("HTTP requests served")); err != nil {
		return nil, fmt.Errorf("creating http.request.total counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.request.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating http.request.duration histogram: %w", err)
	}
	if m.requestActive, err = meter.Int64UpDownCounter("http.request.active",
		metric.WithDescription("HTTP requests in flight")); err != nil {
		return nil, fmt.Errorf("creating http.request.active gauge: %w", err)
	}
	if m.completionTotal, err = meter.Int64Counter("llm.completion.total",
		metric.WithDescription("Completion calls by provider and outcome")); err != nil {
		return nil, fmt.Errorf("creating llm.completion.total counter: %w", err)
	}
	if m.completionDuration, err = meter.Float64Histogram("llm.completion.duration",
		metric.WithDescription("Completion call duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating llm.completion.duration histogram: %w", err)
	}
	if m.stageTotal, err = meter.Int64Counter("analysis.stage.total",
		metric.WithDescription("Pipeline stages by name and outcome")); err != nil {
		return nil, fmt.Errorf("creating analysis.stage.total counter: %w", err)
	}
	if m.stageDuration, err = meter.Float64Histogram("analysis.stage.duration",
		metric.WithDescription("Pipeline stage duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating analysis.stage.duration histogram: %w", err)
	}
	return &m, nil
}

// RecordRequestStart counts a request in flight.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd records a finished HTTP request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, method, path string, status int, d time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrCode, status),
	))
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
	))
}

// RecordCompletion records one completion call.
func (m *Metrics) RecordCompletion(ctx context.Context, provider string, err error, d time.Duration) {
	m.completionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrStatus, outcome(err)),
	))
	m.completionDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(AttrProvider, provider)))
}

// RecordStage records one finished pipeline stage.
func (m *Metrics) RecordStage(ctx context.Context, task, stage string, err error, d time.Duration) {
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrTask, task),
		attribute.String(AttrStage, stage),
		attribute.String(AttrStatus, outcome(err)),
	))
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(AttrStage, stage)))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
