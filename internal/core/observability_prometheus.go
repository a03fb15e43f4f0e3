package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports per-operation outcome counters and a
// latency histogram on a dedicated registry so callers can expose it on
// whatever handler they choose.
type PrometheusMetricsRecorder struct {
	registry  *prometheus.Registry
	outcomes  *prometheus.CounterVec
	latencies *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder constructs a recorder with its own registry
// and registers the operation metrics on it.
func NewPrometheusMetricsRecorder(namespace string) *PrometheusMetricsRecorder {
	if namespace == "" {
		namespace = "rostercore"
	}
	registry := prometheus.NewRegistry()
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Service operations partitioned by operation name and outcome.",
	}, []string{"operation", "status"})
	latencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Service operation latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	registry.MustRegister(outcomes, latencies)
	return &PrometheusMetricsRecorder{
		registry:  registry,
		outcomes:  outcomes,
		latencies: latencies,
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *PrometheusMetricsRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.outcomes.WithLabelValues(operation, status).Inc()
	r.latencies.WithLabelValues(operation).Observe(duration.Seconds())
}
