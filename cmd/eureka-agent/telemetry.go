package main

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/eurekakit/component"
	"github.com/kbukum/eurekakit/observability"
)

// telemetry flushes the OTLP providers on shutdown. It is registered before
// every other component so that it stops last and the deregistration spans
// and metrics are exported.
type telemetry struct {
	cfg    observability.Config
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*telemetry)(nil)
	_ component.Describable = (*telemetry)(nil)
)

func (t *telemetry) Name() string { return "telemetry" }

func (t *telemetry) Start(context.Context) error { return nil }

func (t *telemetry) Stop(ctx context.Context) error {
	return errors.Join(t.meter.Shutdown(ctx), t.tracer.Shutdown(ctx))
}

func (t *telemetry) Health(context.Context) component.Health {
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}

func (t *telemetry) Describe() component.Description {
	return component.Description{
		Name:    "OTLP Exporter",
		Type:    "telemetry",
		Details: t.cfg.Endpoint,
	}
}
