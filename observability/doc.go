// Package observability wires OpenTelemetry tracing and metrics for the
// registry agent.
//
//	tp, err := observability.InitTracer(ctx, cfg.Tracer(name, version, env), log)
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, cfg.Meter(name, version, env), log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewRegistryMetrics(observability.Meter("eureka"))
//
// StartOperation/End wrap one registry call in a span and record its
// duration and outcome in RegistryMetrics.
package observability
