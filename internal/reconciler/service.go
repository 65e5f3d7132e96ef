package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"github.com/kunkunyu/mailtemplate/pkg/metrics"
	"go.uber.org/multierr"
)

const defaultInterval = time.Minute

// ServiceParams configure the reconcile service.
type ServiceParams struct {
	Logger     *logger.Logger
	Reconciler *Reconciler
	Repository Repository
	Lock       Lock
	Metrics    *metrics.ReconcileMetrics
	Interval   time.Duration
}

// Service reconciles every notification template on a fixed cadence.
type Service struct {
	logg       *logger.Logger
	reconciler *Reconciler
	repo       Repository
	lock       Lock
	metrics    *metrics.ReconcileMetrics
	interval   time.Duration
}

// NewService builds a reconcile service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("template repository required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:       params.Logger,
		reconciler: params.Reconciler,
		repo:       params.Repository,
		lock:       params.Lock,
		metrics:    params.Metrics,
		interval:   interval,
	}, nil
}

// Run starts the reconcile loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithField(ctx, "component", "template_reconciler")
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "reconcile cycle failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "reconciler context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "reconcile cycle failed", err)
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Debug(ctx, "another reconciler instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "failed to release reconcile lock", relErr)
		}
	}()

	start := time.Now()
	err = s.reconcileAll(ctx)
	s.metrics.ObserveCycle(err != nil, time.Since(start))
	return err
}

func (s *Service) reconcileAll(ctx context.Context) error {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	var errs error
	for _, name := range names {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		action, err := s.reconciler.Reconcile(ctx, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			s.metrics.IncAction("error")
			continue
		}
		if action != ActionNone {
			s.metrics.IncAction(string(action))
		}
	}
	return errs
}
