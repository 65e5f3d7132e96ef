package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

const defaultRecreateDelay = 2 * time.Second

// Action is the outcome of reconciling one template.
type Action string

const (
	ActionNone       Action = "none"
	ActionFinalized  Action = "finalized"
	ActionRecreated  Action = "recreated"
	ActionSuperseded Action = "superseded"
)

// Reconciler keeps plugin-owned templates ahead of the system templates that
// share their reason type.
type Reconciler struct {
	repo  Repository
	logg  *logger.Logger
	delay time.Duration
	now   func() time.Time
	wait  func(ctx context.Context, d time.Duration) error
}

func NewReconciler(repo Repository, logg *logger.Logger, recreateDelay time.Duration) (*Reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("template repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if recreateDelay < 0 {
		recreateDelay = defaultRecreateDelay
	}
	return &Reconciler{
		repo:  repo,
		logg:  logg,
		delay: recreateDelay,
		now:   func() time.Time { return time.Now().UTC() },
		wait:  sleepContext,
	}, nil
}

// Reconcile brings the named template to its desired state. Failures are not
// retried; the next cycle sees the template again.
func (r *Reconciler) Reconcile(ctx context.Context, name string) (Action, error) {
	ctx = r.logg.WithTemplateName(ctx, name)

	tpl, err := r.repo.Get(ctx, name)
	if err != nil {
		return ActionNone, fmt.Errorf("load template %s: %w", name, err)
	}
	if tpl == nil {
		return ActionNone, nil
	}

	action := ActionNone
	owned := tpl.IsPluginOwned()

	if tpl.IsDeleted() {
		if err := r.repo.Finalize(ctx, name); err != nil {
			return ActionNone, fmt.Errorf("finalize template %s: %w", name, err)
		}
		action = ActionFinalized

		if owned && tpl.ReasonType != "" {
			recreated, err := r.recreate(ctx, tpl)
			if err != nil {
				return action, err
			}
			if recreated {
				return ActionRecreated, nil
			}
		}
	}

	if !owned && tpl.ReasonType != "" {
		superseded, err := r.supersede(ctx, tpl)
		if err != nil {
			return action, err
		}
		if superseded {
			return ActionSuperseded, nil
		}
	}
	return action, nil
}

// recreate restores a deleted plugin template as a fresh copy of the oldest
// live template of its reason type, keeping the deleted template's HTML body.
func (r *Reconciler) recreate(ctx context.Context, deleted *models.NotificationTemplate) (bool, error) {
	ctx = r.logg.WithReasonType(ctx, deleted.ReasonType)

	oldest, err := r.repo.OldestLive(ctx, deleted.ReasonType)
	if err != nil {
		return false, fmt.Errorf("find oldest %s template: %w", deleted.ReasonType, err)
	}
	if oldest == nil || !oldest.CreationTimestamp.After(deleted.CreationTimestamp) {
		return false, nil
	}

	if err := r.wait(ctx, r.delay); err != nil {
		return false, err
	}

	replacement := *oldest
	replacement.Name = deleted.Name
	replacement.HTMLBody = deleted.HTMLBody
	replacement.Version = 0
	replacement.CreationTimestamp = r.now()
	replacement.DeletionTimestamp = nil

	if err := r.repo.Create(ctx, &replacement); err != nil {
		return false, fmt.Errorf("recreate template %s: %w", deleted.Name, err)
	}
	r.logg.Info(ctx, "reconcile.template_recreated")
	return true, nil
}

// supersede marks the plugin template of a reason type for deletion when the
// given system template is newer than it.
func (r *Reconciler) supersede(ctx context.Context, tpl *models.NotificationTemplate) (bool, error) {
	pluginName := models.PluginTemplateName(tpl.ReasonType)
	one, err := r.repo.Get(ctx, pluginName)
	if err != nil {
		return false, fmt.Errorf("load template %s: %w", pluginName, err)
	}
	if one == nil || one.IsDeleted() {
		return false, nil
	}
	if !tpl.CreationTimestamp.After(one.CreationTimestamp) {
		return false, nil
	}
	if err := r.repo.MarkDeleted(ctx, pluginName, r.now()); err != nil {
		return false, fmt.Errorf("delete template %s: %w", pluginName, err)
	}
	ctx = r.logg.WithField(ctx, "superseded", pluginName)
	r.logg.Info(ctx, "reconcile.template_superseded")
	return true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
