package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics records notification template reconcile cycles.
type ReconcileMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewReconcileMetrics registers the reconcile metrics on the provided registerer.
func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	if reg == nil {
		return &ReconcileMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "template_reconcile_cycle_duration_seconds",
		Help:    "Duration of notification template reconcile cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "template_reconcile_total",
		Help: "Reconciled notification templates by action.",
	}, []string{"action"})
	reg.MustRegister(duration, outcomes)
	return &ReconcileMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveCycle records the duration of one reconcile cycle.
func (m *ReconcileMetrics) ObserveCycle(failed bool, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	result := "success"
	if failed {
		result = "failure"
	}
	m.duration.WithLabelValues(result).Observe(d.Seconds())
}

// IncAction counts one reconcile decision.
func (m *ReconcileMetrics) IncAction(action string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(action)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
