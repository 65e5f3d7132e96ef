package metrics

import "github.com/prometheus/client_golang/prometheus"

// ToastMetrics counts console notifications.
type ToastMetrics struct {
	toasts *prometheus.CounterVec
}

func NewToastMetrics(reg prometheus.Registerer) *ToastMetrics {
	if reg == nil {
		return &ToastMetrics{}
	}
	toasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toast_notifications_total",
		Help: "Toast notifications emitted to the console.",
	}, []string{"level"})
	reg.MustRegister(toasts)
	return &ToastMetrics{toasts: toasts}
}

func (m *ToastMetrics) IncToast(level string) {
	if m == nil || m.toasts == nil {
		return
	}
	m.toasts.WithLabelValues(normalizeLabel(level)).Inc()
}
