package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports service operation metrics through a
// Prometheus registry. It fulfills MetricsRecorder for deployments scraped by
// an external collector.
type PrometheusMetricsRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	checked    prometheus.Counter
	created    prometheus.Counter
}

// NewPrometheusMetricsRecorder registers the service metric families on reg.
// A nil registerer falls back to the default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensorcore",
			Name:      "service_operations_total",
			Help:      "Service operations by name and result status.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sensorcore",
			Name:      "service_operation_duration_seconds",
			Help:      "Service operation latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"operation"}),
		checked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensorcore",
			Name:      "synthesis_candidates_checked_total",
			Help:      "Candidate quadruples examined by synthesis runs.",
		}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensorcore",
			Name:      "synthesis_combinations_created_total",
			Help:      "Sensor combinations persisted by synthesis runs.",
		}),
	}
	reg.MustRegister(rec.operations, rec.durations, rec.checked, rec.created)
	return rec
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveSynthesis records the counters returned by one synthesis run.
func (r *PrometheusMetricsRecorder) ObserveSynthesis(checked, created int) {
	r.checked.Add(float64(checked))
	r.created.Add(float64(created))
}
