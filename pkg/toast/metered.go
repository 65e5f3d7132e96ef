package toast

import (
	"context"

	"github.com/kunkunyu/mailtemplate/pkg/metrics"
)

// MeteredNotifier counts toasts before handing them to the wrapped notifier.
type MeteredNotifier struct {
	next    Notifier
	metrics *metrics.ToastMetrics
}

func NewMeteredNotifier(next Notifier, m *metrics.ToastMetrics) *MeteredNotifier {
	return &MeteredNotifier{next: next, metrics: m}
}

func (n *MeteredNotifier) Error(ctx context.Context, message string) {
	n.metrics.IncToast(string(LevelError))
	if n.next != nil {
		n.next.Error(ctx, message)
	}
}
