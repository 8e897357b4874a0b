package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/startup-analyzer/provider"
	"github.com/kbukum/startup-analyzer/workflow"
)

// WithTracing wraps every Execute call in a client span named after the
// provider. Inputs and outputs are not recorded.
func WithTracing[I, O any]() provider.Middleware[I, O] {
	return func(inner provider.RequestResponse[I, O]) provider.RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner}
	}
}

type tracingRR[I, O any] struct {
	inner provider.RequestResponse[I, O]
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := StartSpan(ctx, "provider.execute",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(AttrProvider, t.inner.Name())),
	)
	out, err := t.inner.Execute(ctx, input)
	EndSpan(span, err)
	return out, err
}

// WithMetrics counts and times every Execute call.
func WithMetrics[I, O any](m *Metrics) provider.Middleware[I, O] {
	return func(inner provider.RequestResponse[I, O]) provider.RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, m: m}
	}
}

type metricsRR[I, O any] struct {
	inner provider.RequestResponse[I, O]
	m     *Metrics
}

func (r *metricsRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	out, err := r.inner.Execute(ctx, input)
	r.m.RecordCompletion(ctx, r.inner.Name(), err, time.Since(start))
	return out, err
}

// StageObserver records finished and failed pipeline stages.
func StageObserver(m *Metrics) workflow.Observer {
	return func(e workflow.Event) {
		switch e.Kind {
		case workflow.EventStageFinished:
			m.RecordStage(context.Background(), e.Task, e.Stage, nil, e.Duration)
		case workflow.EventStageFailed:
			m.RecordStage(context.Background(), e.Task, e.Stage, e.Err, e.Duration)
		}
	}
}
