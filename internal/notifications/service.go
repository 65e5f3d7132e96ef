package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"gorm.io/gorm"
)

// Center manages who is subscribed to which reasons.
type Center interface {
	Subscribe(ctx context.Context, subscriber Subscriber, reason InterestReason) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, subscriber Subscriber, reason InterestReason) error
}

// Emitter records reasons so subscribed parties can be notified.
type Emitter interface {
	Emit(ctx context.Context, reasonType string, attrs ReasonAttributes) (*models.Reason, error)
}

// ReasonTypes looks up registered reason types.
type ReasonTypes interface {
	FindReasonType(ctx context.Context, name string) (*models.ReasonType, error)
}

// Service bundles the notification host operations.
type Service interface {
	Center
	Emitter
	ReasonTypes
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Subscribe(ctx context.Context, subscriber Subscriber, reason InterestReason) (*models.Subscription, error) {
	if err := validateInterest(subscriber, reason); err != nil {
		return nil, err
	}
	filter := filterFor(subscriber, reason)

	existing, err := s.repo.FindSubscription(ctx, filter)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}

	sub := &models.Subscription{
		ID:             uuid.NewString(),
		SubscriberName: subscriber.Name,
		ReasonType:     reason.ReasonType,
		SubjectAPI:     reason.Subject.APIVersion,
		SubjectKind:    reason.Subject.Kind,
		SubjectName:    reason.Subject.Name,
		Expression:     reason.Expression,
		CreatedAt:      s.now(),
	}
	if err := s.repo.InsertSubscription(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
	}

	// a concurrent subscribe may have won the insert
	stored, err := s.repo.FindSubscription(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload subscription")
	}
	return stored, nil
}

func (s *service) Unsubscribe(ctx context.Context, subscriber Subscriber, reason InterestReason) error {
	if err := validateInterest(subscriber, reason); err != nil {
		return err
	}
	if _, err := s.repo.DeleteSubscriptions(ctx, filterFor(subscriber, reason)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete subscription")
	}
	return nil
}

func (s *service) Emit(ctx context.Context, reasonType string, attrs ReasonAttributes) (*models.Reason, error) {
	reasonType = strings.TrimSpace(reasonType)
	if reasonType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason type required")
	}

	rt, err := s.FindReasonType(ctx, reasonType)
	if err != nil {
		return nil, err
	}
	if missing := missingProperties(rt, attrs.Attributes); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason attributes incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	attributes := attrs.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}
	reason := &models.Reason{
		ID:           uuid.NewString(),
		ReasonType:   reasonType,
		Author:       attrs.Author,
		SubjectAPI:   attrs.Subject.APIVersion,
		SubjectKind:  attrs.Subject.Kind,
		SubjectName:  attrs.Subject.Name,
		SubjectTitle: attrs.Subject.Title,
		SubjectURL:   attrs.Subject.URL,
		Attributes:   attributes,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateReason(ctx, reason); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit reason")
	}
	return reason, nil
}

func (s *service) FindReasonType(ctx context.Context, name string) (*models.ReasonType, error) {
	rt, err := s.repo.FindReasonType(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("reason type %q not found", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reason type")
	}
	return rt, nil
}

func validateInterest(subscriber Subscriber, reason InterestReason) error {
	if strings.TrimSpace(subscriber.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscriber name required")
	}
	if strings.TrimSpace(reason.ReasonType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reason type required")
	}
	return nil
}

func missingProperties(rt *models.ReasonType, attrs map[string]any) []string {
	var missing []string
	for _, p := range rt.Properties {
		if p.Optional {
			continue
		}
		if _, ok := attrs[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}
