// Package observability wires OpenTelemetry tracing and metrics.
//
// The credential service wraps each operation in an Operation, which opens a
// span and records the habit.auth.* instruments when it ends:
//
//	ctx, op := observability.StartOperation(ctx, tracer, metrics, "credential.log_in")
//	defer func() { op.End(ctx, err) }()
//
// Export is optional. With observability.enabled set, the Component installs
// OTLP HTTP tracer and meter providers on start and flushes them on stop.
package observability
