package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kunkunyu/mailtemplate/pkg/instance"
)

// A cycle that outlives the lease can overlap with the next holder.
const defaultLeaseTTL = 5 * time.Minute

// Lock guards one reconcile cycle at a time across replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type leaseStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	DelIfValue(ctx context.Context, key, expected string) (bool, error)
}

// RedisLock is a lease on a single Redis key. The stored value names the
// holding instance so an operator can see who owns a stuck cycle.
type RedisLock struct {
	store leaseStore
	key   string
	ttl   time.Duration

	mu    sync.Mutex
	token string
}

func NewRedisLock(store leaseStore, key string, ttl time.Duration) (*RedisLock, error) {
	switch {
	case store == nil:
		return nil, errors.New("lease store required")
	case key == "":
		return nil, errors.New("lease key required")
	}
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &RedisLock{store: store, key: key, ttl: ttl}, nil
}

func leaseToken() string {
	return instance.GetID() + "/" + uuid.NewString()
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token != "" {
		return false, nil
	}
	token := leaseToken()
	won, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", l.key, err)
	}
	if won {
		l.token = token
	}
	return won, nil
}

// Release drops the lease if this instance still holds it. An expired lease
// that was taken over by another instance is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""
	if _, err := l.store.DelIfValue(ctx, l.key, token); err != nil {
		return fmt.Errorf("release lease %s: %w", l.key, err)
	}
	return nil
}

// Held reports whether this instance believes it owns the lease.
func (l *RedisLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token != ""
}
