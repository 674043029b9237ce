package core

import (
	"context"
	"time"

	"sensorcore/pkg/domain"
)

// MetricsRecorder receives one observation per completed service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan finishes a span started by a Tracer.
type TraceSpan interface {
	End(err error)
}

// AuditStatus marks an audit entry as recording a success or a failure.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry captures a single service mutation for compliance trails.
type AuditEntry struct {
	Operation string        `json:"operation"`
	Entity    string        `json:"entity"`
	Action    string        `json:"action"`
	EntityID  string        `json:"entity_id,omitempty"`
	Status    AuditStatus   `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// AuditRecorder persists audit entries. Implementations must not block the
// calling operation for longer than necessary.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type auditDescriptor struct {
	entity string
	action string
}

// auditCatalog maps operation names to their audited entity and action.
// Operations absent from the table produce no audit entries.
var auditCatalog = map[string]auditDescriptor{
	"create_analyte":               {entity: string(domain.KindAnalyte), action: "create"},
	"create_bio_recognition_layer": {entity: string(domain.KindBioRecognition), action: "create"},
	"create_immobilization_layer":  {entity: string(domain.KindImmobilization), action: "create"},
	"create_memristive_layer":      {entity: string(domain.KindMemristive), action: "create"},
	"synthesize_combinations":      {entity: "sensor_combination", action: "synthesize"},
	"archive_combinations":         {entity: "sensor_combination", action: "archive"},
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	clock   Clock
}

// WithMetricsRecorder attaches a metrics sink to the service.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) { o.metrics = rec }
}

// WithTracer attaches a tracer to the service.
func WithTracer(tr Tracer) ServiceOption {
	return func(o *serviceOptions) { o.tracer = tr }
}

// WithAuditRecorder attaches an audit sink to the service.
func WithAuditRecorder(rec AuditRecorder) ServiceOption {
	return func(o *serviceOptions) { o.audit = rec }
}

// WithClock overrides the service clock.
func WithClock(c Clock) ServiceOption {
	return func(o *serviceOptions) { o.clock = c }
}
