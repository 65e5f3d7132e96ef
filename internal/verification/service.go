package verification

import (
	"context"
	"errors"
	"strings"

	"github.com/kunkunyu/mailtemplate/internal/notifications"
	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	MsgEmailMissing      = "Your email is missing, please set it in your profile."
	MsgReasonTypeMissing = "没有对应模版"

	subjectTitlePrefix = "验证模板："
)

// Users loads console accounts.
type Users interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
}

// Notifications is the subset of the host notification surface used here.
type Notifications interface {
	notifications.Center
	notifications.Emitter
	notifications.ReasonTypes
}

// Service sends a sample notification of a reason type to the current user.
type Service interface {
	VerifySend(ctx context.Context, username, reasonTypeName string) error
}

type service struct {
	users         Users
	notifications Notifications
	logg          *logger.Logger
}

func NewService(users Users, notes Notifications, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if notes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{users: users, notifications: notes, logg: logg}, nil
}

func (s *service) VerifySend(ctx context.Context, username, reasonTypeName string) (err error) {
	ctx = s.logg.WithUsername(ctx, username)
	ctx = s.logg.WithReasonType(ctx, reasonTypeName)

	user, err := s.currentUser(ctx, username)
	if err != nil {
		return err
	}

	reasonType, err := s.notifications.FindReasonType(ctx, reasonTypeName)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgReasonTypeMissing)
		}
		return err
	}

	subscriber, interest := verifyInterest(user.Email, reasonType.Name)
	if _, err := s.notifications.Subscribe(ctx, subscriber, interest); err != nil {
		return err
	}
	defer func() {
		if unsubErr := s.notifications.Unsubscribe(ctx, subscriber, interest); unsubErr != nil {
			s.logg.Error(ctx, "verify_send.unsubscribe_failed", unsubErr)
			err = multierr.Append(err, unsubErr)
		}
	}()

	attributes := make(map[string]any, len(reasonType.Properties))
	for _, name := range reasonType.PropertyNames() {
		attributes[name] = name
	}

	_, err = s.notifications.Emit(ctx, reasonType.Name, notifications.ReasonAttributes{
		Author: user.Name,
		Subject: notifications.Subject{
			APIVersion: interest.Subject.APIVersion,
			Kind:       interest.Subject.Kind,
			Name:       interest.Subject.Name,
			Title:      subjectTitlePrefix + reasonType.DisplayName,
		},
		Attributes: attributes,
	})
	if err != nil {
		return err
	}

	s.logg.Info(ctx, "verify_send.emitted")
	return nil
}

func (s *service) currentUser(ctx context.Context, username string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "username required")
	}
	user, err := s.users.FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgEmailMissing)
	}
	return user, nil
}

func verifyInterest(email, reasonType string) (notifications.Subscriber, notifications.InterestReason) {
	name := notifications.AnonymousWithEmail(email)
	return notifications.Subscriber{Name: name}, notifications.InterestReason{
		ReasonType: reasonType,
		Subject: notifications.ReasonSubject{
			APIVersion: notifications.UserAPIVersion,
			Kind:       notifications.UserKind,
			Name:       name,
		},
	}
}
