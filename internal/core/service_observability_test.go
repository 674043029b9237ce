package core

import (
	"bytes"
	"context"
	"expvar"
	"strings"
	"testing"
	"time"
)

type auditCall struct {
	entries []AuditEntry
}

func (c *auditCall) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *auditCall) has(op string, status AuditStatus) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			return true
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

func TestServiceObservabilityCoversOperations(t *testing.T) {
	ctx := context.Background()
	audit := &auditCall{}
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}

	svc := NewInMemoryService(
		WithAuditRecorder(audit),
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)
	seedScenario(t, svc)

	if _, err := svc.Synthesize(ctx, 10); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	for _, op := range []string{
		"create_analyte",
		"create_bio_recognition_layer",
		"create_immobilization_layer",
		"create_memristive_layer",
		"synthesize_combinations",
	} {
		if !metrics.has(op, true) {
			t.Fatalf("expected metrics success entry for %s", op)
		}
		if !tracer.has(op, true) {
			t.Fatalf("expected finished span for %s", op)
		}
		if !audit.has(op, AuditStatusSuccess) {
			t.Fatalf("expected audit success entry for %s", op)
		}
	}

	bad := testAnalyte("TABAD")
	bad.PHMax = 11.0
	if _, err := svc.CreateAnalyte(ctx, bad); err == nil {
		t.Fatalf("expected validation failure")
	}
	if !metrics.has("create_analyte", false) {
		t.Fatalf("expected metrics error entry for failed create")
	}
	if !tracer.has("create_analyte", false) {
		t.Fatalf("expected error span for failed create")
	}
	if !audit.has("create_analyte", AuditStatusError) {
		t.Fatalf("expected audit error entry for failed create")
	}
}

func TestAuditEntryUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	audit := &auditCall{}
	svc := NewInMemoryService(
		WithAuditRecorder(audit),
		WithClock(ClockFunc(func() time.Time { return fixed })),
	)

	if _, err := svc.CreateAnalyte(context.Background(), testAnalyte("TAALPHA")); err != nil {
		t.Fatalf("create analyte: %v", err)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Entity != "analyte" || entry.Action != "create" || entry.EntityID != "TAALPHA" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
	if !entry.Timestamp.Equal(fixed) {
		t.Fatalf("expected timestamp %v, got %v", fixed, entry.Timestamp)
	}
	if entry.Duration != 0 {
		t.Fatalf("expected zero duration under fixed clock, got %v", entry.Duration)
	}
}

func TestAuditIgnoresUnknownOperation(t *testing.T) {
	audit := &auditCall{}
	svc := NewInMemoryService(WithAuditRecorder(audit))
	svc.recordAuditSuccess(context.Background(), "unknown_operation", "id", time.Second)
	if len(audit.entries) != 0 {
		t.Fatalf("expected no audit entries for unknown operation, got %d", len(audit.entries))
	}
}

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if recorder.Name() == "" {
		t.Fatalf("expected recorder to have export name")
	}
	recorder.Observe(context.Background(), "test_op", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "test_op", false, 5*time.Millisecond)

	snapshot := recorder.Snapshot()
	op := snapshot.Operations["test_op"]
	if op.DurationMSTotal <= 0 || op.Success != 1 || op.Error != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	if v := expvar.Get(recorder.Name()); v == nil {
		t.Fatalf("expected expvar export to be registered")
	} else if !strings.Contains(v.String(), "test_op") {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "trace_op")
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected single span entry, got %d", len(entries))
	}
	if entries[0].Operation != "trace_op" || entries[0].Status != "success" {
		t.Fatalf("unexpected span entry: %+v", entries[0])
	}
	if !strings.Contains(buf.String(), "\"operation\":\"trace_op\"") {
		t.Fatalf("expected JSON output to contain operation: %q", buf.String())
	}
}
