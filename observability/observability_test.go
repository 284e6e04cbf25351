package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.SampleRate = 0.25
	tc := cfg.Tracer("agent", "1.2.3", "staging")
	if tc.ServiceName != "agent" || tc.ServiceVersion != "1.2.3" || tc.SampleRate != 0.25 {
		t.Errorf("unexpected tracer config %+v", tc)
	}
	mc := cfg.Meter("agent", "1.2.3", "staging")
	if mc.Environment != "staging" || mc.Interval != 15*time.Second {
		t.Errorf("unexpected meter config %+v", mc)
	}

	bad := Config{SampleRate: 2}
	if bad.Validate() == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestNewRegistryMetricsNoop(t *testing.T) {
	metrics, err := NewRegistryMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordOperation(ctx, "ORDERS", "register", OutcomeSuccess, 10*time.Millisecond)
	metrics.RecordLookup(ctx, "BILLING", SourceCache)
	metrics.RecordTransition(ctx, "ORDERS", "Registered")
	metrics.AdjustHeartbeatFailures(ctx, "ORDERS", 1)
}

func TestNilRegistryMetrics(t *testing.T) {
	var m *RegistryMetrics
	ctx := context.Background()
	// must not panic
	m.RecordOperation(ctx, "a", "b", OutcomeFailure, time.Second)
	m.RecordLookup(ctx, "a", SourceNone)
	m.RecordTransition(ctx, "a", "Failed")
	m.AdjustHeartbeatFailures(ctx, "a", -1)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRegistryMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewRegistryMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	metrics.RecordOperation(ctx, "ORDERS", "heartbeat", OutcomeSuccess, time.Millisecond)
	metrics.RecordOperation(ctx, "ORDERS", "heartbeat", OutcomeFailure, time.Millisecond)
	metrics.RecordLookup(ctx, "BILLING", SourceFallback)
	metrics.AdjustHeartbeatFailures(ctx, "ORDERS", 2)
	metrics.AdjustHeartbeatFailures(ctx, "ORDERS", -2)

	got := collect(t, reader)

	ops, ok := got["eureka.operation.total"].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum for eureka.operation.total, got %T", got["eureka.operation.total"].Data)
	}
	if len(ops.DataPoints) != 2 {
		t.Errorf("expected 2 data points (success, failure), got %d", len(ops.DataPoints))
	}

	lookups := got["eureka.lookup.total"].Data.(metricdata.Sum[int64])
	if len(lookups.DataPoints) != 1 || lookups.DataPoints[0].Value != 1 {
		t.Errorf("expected one lookup, got %+v", lookups.DataPoints)
	}
	if src, _ := lookups.DataPoints[0].Attributes.Value(attribute.Key(AttrSource)); src.AsString() != SourceFallback {
		t.Errorf("expected source fallback, got %v", src.AsString())
	}

	failures := got["eureka.heartbeat.consecutive_failures"].Data.(metricdata.Sum[int64])
	if len(failures.DataPoints) != 1 || failures.DataPoints[0].Value != 0 {
		t.Errorf("expected failure gauge back at 0, got %+v", failures.DataPoints)
	}

	if _, ok := got["eureka.operation.duration"].Data.(metricdata.Histogram[float64]); !ok {
		t.Errorf("expected duration histogram, got %T", got["eureka.operation.duration"].Data)
	}
}

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		tp.Shutdown(context.Background())
	})
	return sr
}

func TestOperationSuccess(t *testing.T) {
	sr := withSpanRecorder(t)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, _ := NewRegistryMetrics(mp.Meter("test"))

	ctx, op := StartOperation(context.Background(), metrics, "ORDERS", "register",
		attribute.String(AttrInstanceID, "host:orders:8080"))
	op.End(ctx, 204, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "eureka.register" {
		t.Errorf("expected span 'eureka.register', got %q", spans[0].Name())
	}
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrStatusCode].AsInt64() != 204 {
		t.Errorf("expected status code 204, got %v", attrs[AttrStatusCode])
	}
	if attrs[AttrOutcome].AsString() != OutcomeSuccess {
		t.Errorf("expected success outcome, got %v", attrs[AttrOutcome])
	}
	if attrs[AttrInstanceID].AsString() != "host:orders:8080" {
		t.Errorf("expected instance id attribute, got %v", attrs[AttrInstanceID])
	}

	if _, ok := collect(t, reader)["eureka.operation.total"]; !ok {
		t.Error("expected operation to be counted")
	}
}

func TestOperationFailure(t *testing.T) {
	sr := withSpanRecorder(t)

	ctx, op := StartOperation(context.Background(), nil, "ORDERS", "deregister")
	op.End(ctx, 0, errors.New("connection refused"))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
	if op.Duration() <= 0 {
		t.Error("expected positive duration")
	}
}

func TestSetSpanAttribute(t *testing.T) {
	sr := withSpanRecorder(t)
	ctx, span := StartSpan(context.Background(), "test")
	SetSpanAttribute(ctx, "s", "v")
	SetSpanAttribute(ctx, "i", 1)
	SetSpanAttribute(ctx, "b", true)
	SetSpanAttribute(ctx, "ignored", struct{}{})
	span.End()

	if n := len(sr.Ended()[0].Attributes()); n != 3 {
		t.Errorf("expected 3 attributes, got %d", n)
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	// must not panic
	SetSpanAttribute(context.Background(), "k", "v")
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	for _, rate := range []float64{1.0, 0.0, 0.5} {
		cfg := DefaultTracerConfig("test-service")
		cfg.SampleRate = rate
		tp, err := InitTracer(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("InitTracer(%v) failed: %v", rate, err)
		}
		tp.Shutdown(context.Background())
	}
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)

	cfg := DefaultMeterConfig("test-service")
	cfg.Insecure = false
	mp, err := InitMeter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	mp.Shutdown(ctx)
}
