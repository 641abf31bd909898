package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers the audit-persistence loop.
type WorkerMetrics struct {
	registry *prometheus.Registry

	auditEventsTotal     *prometheus.CounterVec
	auditPersistDuration prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	auditEventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafe",
			Subsystem: "worker",
			Name:      "audit_events_total",
			Help:      "Total consumed prediction-audit events by outcome.",
		},
		[]string{"service", "outcome"},
	)
	auditPersistDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cafe",
			Subsystem: "worker",
			Name:      "audit_persist_duration_seconds",
			Help:      "Audit row persistence duration in seconds.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(auditEventsTotal, auditPersistDuration)

	return &WorkerMetrics{
		registry:             registry,
		auditEventsTotal:     auditEventsTotal,
		auditPersistDuration: auditPersistDuration,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) RecordAuditEvent(service, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.auditEventsTotal.WithLabelValues(service, outcome).Inc()
	m.auditPersistDuration.Observe(duration.Seconds())
}
