package toast

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

const defaultPublishTimeout = 2 * time.Second

// Publisher is the pub/sub surface used to reach console subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

// RedisNotifier publishes toasts on a channel the console shell subscribes to.
type RedisNotifier struct {
	publisher Publisher
	channel   string
	logg      *logger.Logger
	now       func() time.Time
	timeout   time.Duration
}

func NewRedisNotifier(publisher Publisher, channel string, logg *logger.Logger) (*RedisNotifier, error) {
	if publisher == nil {
		return nil, errors.New("toast publisher required")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil, errors.New("toast channel required")
	}
	return &RedisNotifier{
		publisher: publisher,
		channel:   channel,
		logg:      logg,
		now:       time.Now,
		timeout:   defaultPublishTimeout,
	}, nil
}

// Error never fails the caller; delivery problems are only logged. The
// publish outlives the caller's context: a cancelled request still gets its
// toast.
func (n *RedisNotifier) Error(ctx context.Context, message string) {
	payload, err := json.Marshal(newToast(ctx, LevelError, message, n.now()))
	if err != nil {
		n.logError(ctx, "toast.encode_failed", err)
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()
	if err := n.publisher.Publish(pubCtx, n.channel, payload); err != nil {
		n.logError(ctx, "toast.publish_failed", err)
	}
}

func (n *RedisNotifier) logError(ctx context.Context, msg string, err error) {
	if n.logg == nil {
		return
	}
	n.logg.Error(n.logg.WithField(ctx, "channel", n.channel), msg, err)
}
