package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one registry call: a span plus the duration recorded in
// RegistryMetrics when it ends.
type Operation struct {
	App     string
	Name    string
	Start   time.Time
	metrics *RegistryMetrics
	span    trace.Span
}

// StartOperation opens a span named "eureka.<name>". metrics may be nil.
func StartOperation(ctx context.Context, metrics *RegistryMetrics, app, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	attrs = append(attrs,
		attribute.String(AttrApp, app),
		attribute.String(AttrOperation, name),
	)
	ctx, span := StartSpan(ctx, "eureka."+name, trace.WithAttributes(attrs...))
	return ctx, &Operation{
		App:     app,
		Name:    name,
		Start:   time.Now(),
		metrics: metrics,
		span:    span,
	}
}

// End closes the span and records the outcome. statusCode is 0 when no
// response was received.
func (op *Operation) End(ctx context.Context, statusCode int, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
	}
	if statusCode > 0 {
		op.span.SetAttributes(attribute.Int(AttrStatusCode, statusCode))
	}
	op.span.SetAttributes(attribute.String(AttrOutcome, outcome))
	op.span.End()

	op.metrics.RecordOperation(ctx, op.App, op.Name, outcome, time.Since(op.Start))
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.Start)
}
