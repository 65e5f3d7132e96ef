package plugin

import (
	"context"
	"sync"

	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

// Lifecycle tracks plugin start/stop and logs each transition.
type Lifecycle struct {
	def  Definition
	logg *logger.Logger

	mu      sync.Mutex
	started bool
}

func NewLifecycle(def Definition, logg *logger.Logger) (*Lifecycle, error) {
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Lifecycle{def: def, logg: logg}, nil
}

// Definition returns the registered plugin definition.
func (l *Lifecycle) Definition() Definition {
	return l.def
}

// Start marks the plugin as running. Calling it twice is a no-op.
func (l *Lifecycle) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	ctx = l.logg.WithField(ctx, "plugin", l.def.Name)
	l.logg.Info(ctx, "plugin started")
}

// Stop marks the plugin as stopped. Stopping a plugin that never started is a no-op.
func (l *Lifecycle) Stop(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return
	}
	l.started = false
	ctx = l.logg.WithField(ctx, "plugin", l.def.Name)
	l.logg.Info(ctx, "plugin stopped")
}

// Running reports whether Start has been called without a matching Stop.
func (l *Lifecycle) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}
