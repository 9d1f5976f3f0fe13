package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/habit/errors"
)

// OutcomeOK is the outcome recorded for operations that return no error.
const OutcomeOK = "ok"

// Operation tracks one traced and metered unit of work.
type Operation struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartOperation starts a span named name on tracer. metrics may be nil.
func StartOperation(ctx context.Context, tracer trace.Tracer, metrics *Metrics, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String(AttrOperation, name)}, attrs...)...,
	))
	return ctx, &Operation{name: name, start: time.Now(), span: span, metrics: metrics}
}

// SetAttributes adds attributes to the operation span.
func (op *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End finishes the span and records the operation metric. The outcome is
// "ok" or the AppError code of err.
func (op *Operation) End(ctx context.Context, err error) {
	outcome := Outcome(err)
	op.span.SetAttributes(attribute.String(AttrOutcome, outcome))
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, outcome)
	}
	op.span.End()
	op.metrics.RecordOperation(ctx, op.name, outcome, time.Since(op.start))
}

// Outcome returns the metric label for err.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "error"
}
