package verification

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/kunkunyu/mailtemplate/internal/notifications"
	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) FindByName(ctx context.Context, name string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeNotifications struct {
	reasonTypes map[string]*models.ReasonType
	calls       []string
	subscribed  []notifications.InterestReason
	emitted     []notifications.ReasonAttributes
	emitErr     error
}

func (f *fakeNotifications) FindReasonType(ctx context.Context, name string) (*models.ReasonType, error) {
	rt, ok := f.reasonTypes[name]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reason type not found")
	}
	return rt, nil
}

func (f *fakeNotifications) Subscribe(ctx context.Context, subscriber notifications.Subscriber, reason notifications.InterestReason) (*models.Subscription, error) {
	f.calls = append(f.calls, "subscribe:"+subscriber.Name)
	f.subscribed = append(f.subscribed, reason)
	return &models.Subscription{SubscriberName: subscriber.Name}, nil
}

func (f *fakeNotifications) Unsubscribe(ctx context.Context, subscriber notifications.Subscriber, reason notifications.InterestReason) error {
	f.calls = append(f.calls, "unsubscribe:"+subscriber.Name)
	return nil
}

func (f *fakeNotifications) Emit(ctx context.Context, reasonType string, attrs notifications.ReasonAttributes) (*models.Reason, error) {
	f.calls = append(f.calls, "emit:"+reasonType)
	if f.emitErr != nil {
		return nil, f.emitErr
	}
	f.emitted = append(f.emitted, attrs)
	return &models.Reason{ReasonType: reasonType}, nil
}

func newFixture(t *testing.T, email string) (Service, *fakeNotifications, *bytes.Buffer) {
	t.Helper()
	users := &fakeUsers{users: map[string]*models.User{
		"admin": {Name: "admin", Email: email},
	}}
	notes := &fakeNotifications{reasonTypes: map[string]*models.ReasonType{
		"new-comment-on-post": {
			Name:        "new-comment-on-post",
			DisplayName: "文章有新评论",
			Properties: []models.ReasonProperty{
				{Name: "postTitle"},
				{Name: "commenter"},
			},
		},
	}}
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	svc, err := NewService(users, notes, logg)
	require.NoError(t, err)
	return svc, notes, &buf
}

func TestVerifySendHappyPath(t *testing.T) {
	svc, notes, logs := newFixture(t, "admin@example.com")

	require.NoError(t, svc.VerifySend(context.Background(), "admin", "new-comment-on-post"))

	assert.Equal(t, []string{
		"subscribe:anonymousUser#admin@example.com",
		"emit:new-comment-on-post",
		"unsubscribe:anonymousUser#admin@example.com",
	}, notes.calls)

	require.Len(t, notes.subscribed, 1)
	assert.Equal(t, "User", notes.subscribed[0].Subject.Kind)
	assert.Equal(t, "anonymousUser#admin@example.com", notes.subscribed[0].Subject.Name)

	require.Len(t, notes.emitted, 1)
	emitted := notes.emitted[0]
	assert.Equal(t, "admin", emitted.Author)
	assert.Equal(t, "验证模板：文章有新评论", emitted.Subject.Title)
	assert.Equal(t, "User", emitted.Subject.Kind)
	assert.Equal(t, map[string]any{"postTitle": "postTitle", "commenter": "commenter"}, emitted.Attributes)

	assert.Contains(t, logs.String(), "verify_send.emitted")
	assert.Contains(t, logs.String(), `"reason_type":"new-comment-on-post"`)
}

func TestVerifySendMissingEmail(t *testing.T) {
	svc, notes, _ := newFixture(t, "   ")

	err := svc.VerifySend(context.Background(), "admin", "new-comment-on-post")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, MsgEmailMissing, typed.Message())
	assert.Empty(t, notes.calls)
}

func TestVerifySendUnknownReasonType(t *testing.T) {
	svc, notes, _ := newFixture(t, "admin@example.com")

	err := svc.VerifySend(context.Background(), "admin", "nope")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, MsgReasonTypeMissing, typed.Message())
	assert.Empty(t, notes.calls)
}

func TestVerifySendUnknownUser(t *testing.T) {
	svc, _, _ := newFixture(t, "admin@example.com")

	err := svc.VerifySend(context.Background(), "ghost", "new-comment-on-post")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.VerifySend(context.Background(), "", "new-comment-on-post")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestVerifySendUnsubscribesWhenEmitFails(t *testing.T) {
	svc, notes, _ := newFixture(t, "admin@example.com")
	notes.emitErr = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "emit reason")

	err := svc.VerifySend(context.Background(), "admin", "new-comment-on-post")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Equal(t, "unsubscribe:anonymousUser#admin@example.com", notes.calls[len(notes.calls)-1])
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})
	_, err := NewService(nil, &fakeNotifications{}, logg)
	assert.Error(t, err)
	_, err = NewService(&fakeUsers{}, nil, logg)
	assert.Error(t, err)
	_, err = NewService(&fakeUsers{}, &fakeNotifications{}, nil)
	assert.Error(t, err)
}
