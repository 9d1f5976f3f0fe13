package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/habit/errors"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string, attr attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}
	cfg.Enabled = true
	cfg.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample_rate > 1")
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordOperation(ctx, "x", OutcomeOK, time.Millisecond)
	m.RecordTokenIssued(ctx, "x")
	m.RecordTokenRejected(ctx, "x")
}

func TestMetrics_Record(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordTokenIssued(ctx, "credential.log_in")
	m.RecordTokenIssued(ctx, "credential.log_in")
	m.RecordTokenRejected(ctx, string(apperrors.ErrCodeStaleToken))

	if got := collectSum(t, reader, MetricTokensIssued, attribute.String("operation", "credential.log_in")); got != 2 {
		t.Errorf("expected 2 issued tokens, got %d", got)
	}
	if got := collectSum(t, reader, MetricTokensRejected, attribute.String("reason", "STALE_TOKEN")); got != 1 {
		t.Errorf("expected 1 stale rejection, got %d", got)
	}
}

func TestOperation_EndRecordsSpanAndMetric(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	_, op := StartOperation(ctx, tp.Tracer("test"), m, "credential.log_in")
	op.End(ctx, apperrors.InvalidCredentials())

	_, op = StartOperation(ctx, tp.Tracer("test"), m, "credential.register")
	op.End(ctx, nil)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "credential.log_in" || spans[0].Status().Code != codes.Error {
		t.Errorf("expected failed log_in span, got %s %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Status().Code == codes.Error {
		t.Error("expected register span without error status")
	}

	if got := collectSum(t, reader, MetricOperations, attribute.String("outcome", "INVALID_CREDENTIALS")); got != 1 {
		t.Errorf("expected 1 INVALID_CREDENTIALS outcome, got %d", got)
	}
	if got := collectSum(t, reader, MetricOperations, attribute.String("outcome", OutcomeOK)); got != 1 {
		t.Errorf("expected 1 ok outcome, got %d", got)
	}
}

func TestOutcome(t *testing.T) {
	if Outcome(nil) != OutcomeOK {
		t.Error("nil error should be ok")
	}
	if Outcome(context.Canceled) != "error" {
		t.Error("plain errors should be 'error'")
	}
	if Outcome(apperrors.StaleToken()) != "STALE_TOKEN" {
		t.Error("AppError should report its code")
	}
}

func TestComponent_Disabled(t *testing.T) {
	c := NewComponent(Config{}, "habit", "dev", "development")
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Message != "disabled" {
		t.Errorf("expected disabled health message, got %q", h.Message)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("unexpected description %+v", d)
	}
}
