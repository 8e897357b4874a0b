package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/logger"
)

const componentName = "telemetry"

// Component owns the tracer and meter providers.
type Component struct {
	cfg     Config
	id      Identity
	log     *logger.Logger
	metrics *Metrics

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// New creates the component. Instruments are bound to the global meter, so
// they start exporting once Start installs a provider.
func New(cfg Config, id Identity, log *logger.Logger) (*Component, error) {
	m, err := NewMetrics(Meter())
	if err != nil {
		return nil, err
	}
	return &Component{cfg: cfg, id: id, log: log.WithComponent(componentName), metrics: m}, nil
}

// Metrics returns the shared instruments.
func (c *Component) Metrics() *Metrics { return c.metrics }

// Name implements component.Component.
func (c *Component) Name() string { return componentName }

// Start installs the propagator and, when enabled, the OTLP exporters.
func (c *Component) Start(ctx context.Context) error {
	installPropagator()
	if !c.cfg.Enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tp, err := InitTracer(ctx, c.cfg, c.id)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg, c.id)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp

	c.log.Info("telemetry export enabled", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"interval", c.cfg.MetricInterval.String(),
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	return errors.Join(errs...)
}

// Health is always healthy; export failures are retried by the SDK.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy, Message: msg}
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp %s sample=%g", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
