// Package toast delivers transient console notifications.
package toast

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kunkunyu/mailtemplate/pkg/auth"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

// Level is the severity the console shell styles the toast with.
type Level string

const (
	LevelError Level = "error"
)

// Toast is the payload delivered to the console shell. Username addresses the
// session whose request failed; the shell drops toasts meant for someone else.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newToast(ctx context.Context, level Level, message string, now time.Time) Toast {
	return Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Username:  auth.UsernameFromContext(ctx),
		CreatedAt: now.UTC(),
	}
}

// Notifier matches storeapi.Notifier.
type Notifier interface {
	Error(ctx context.Context, message string)
}

// LogNotifier writes toasts to the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"toast_level":     string(LevelError),
		"toast_message":   message,
		"toast_recipient": auth.UsernameFromContext(ctx),
	})
	n.logg.Warn(ctx, "toast.error")
}

// Fanout delivers each toast to every notifier in order.
type Fanout []Notifier

func (f Fanout) Error(ctx context.Context, message string) {
	for _, n := range f {
		if n != nil {
			n.Error(ctx, message)
		}
	}
}
