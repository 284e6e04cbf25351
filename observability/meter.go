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

	"github.com/kbukum/eurekakit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)

	if log != nil {
		log.Info("meter initialized", logger.Fields(
			logger.FieldService, config.ServiceName,
			"endpoint", config.Endpoint,
			"interval", config.Interval.String(),
		))
	}

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Outcome labels used with RegistryMetrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Lookup sources used with RecordLookup.
const (
	SourceCache    = "cache"
	SourceRegistry = "registry"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// RegistryMetrics holds the instruments of a registry client. A nil
// *RegistryMetrics is valid and records nothing.
type RegistryMetrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	lookupTotal       metric.Int64Counter
	transitionTotal   metric.Int64Counter
	heartbeatFailures metric.Int64UpDownCounter
}

// NewRegistryMetrics creates the registry instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	operationTotal, err := meter.Int64Counter("eureka.operation.total",
		metric.WithDescription("Registry calls by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating eureka.operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("eureka.operation.duration",
		metric.WithDescription("Duration of registry calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating eureka.operation.duration histogram: %w", err)
	}

	lookupTotal, err := meter.Int64Counter("eureka.lookup.total",
		metric.WithDescription("Instance lookups by service and answering source"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating eureka.lookup.total counter: %w", err)
	}

	transitionTotal, err := meter.Int64Counter("eureka.state.transitions",
		metric.WithDescription("Lifecycle state transitions by target state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating eureka.state.transitions counter: %w", err)
	}

	heartbeatFailures, err := meter.Int64UpDownCounter("eureka.heartbeat.consecutive_failures",
		metric.WithDescription("Heartbeats failed since the last successful one"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating eureka.heartbeat.consecutive_failures gauge: %w", err)
	}

	return &RegistryMetrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		lookupTotal:       lookupTotal,
		transitionTotal:   transitionTotal,
		heartbeatFailures: heartbeatFailures,
	}, nil
}

// RecordOperation records one registry call.
func (m *RegistryMetrics) RecordOperation(ctx context.Context, app, operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrApp, app),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrOutcome, outcome),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrApp, app),
		attribute.String(AttrOperation, operation),
	))
}

// RecordLookup records which source answered an instance lookup.
func (m *RegistryMetrics) RecordLookup(ctx context.Context, service, source string) {
	if m == nil {
		return
	}
	m.lookupTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrService, service),
		attribute.String(AttrSource, source),
	))
}

// RecordTransition records entering a lifecycle state.
func (m *RegistryMetrics) RecordTransition(ctx context.Context, app, state string) {
	if m == nil {
		return
	}
	m.transitionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrApp, app),
		attribute.String(AttrState, state),
	))
}

// AdjustHeartbeatFailures moves the consecutive-failure gauge by delta.
func (m *RegistryMetrics) AdjustHeartbeatFailures(ctx context.Context, app string, delta int64) {
	if m == nil || delta == 0 {
		return
	}
	m.heartbeatFailures.Add(ctx, delta, metric.WithAttributes(attribute.String(AttrApp, app)))
}
