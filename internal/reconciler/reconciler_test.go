package reconciler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.NotificationTemplate{}))
	return conn
}

type reconcileFixture struct {
	repo    Repository
	rec     *Reconciler
	waits   []time.Duration
	nowTime time.Time
}

func newReconcileFixture(t *testing.T) *reconcileFixture {
	t.Helper()
	fx := &reconcileFixture{
		repo:    NewRepository(newTestDB(t)),
		nowTime: baseTime.Add(24 * time.Hour),
	}
	rec, err := NewReconciler(fx.repo, logger.New(logger.Options{ServiceName: "reconcile-test"}), 2*time.Second)
	require.NoError(t, err)
	rec.now = func() time.Time { return fx.nowTime }
	rec.wait = func(ctx context.Context, d time.Duration) error {
		fx.waits = append(fx.waits, d)
		return nil
	}
	fx.rec = rec
	return fx
}

func (fx *reconcileFixture) seed(t *testing.T, tpl models.NotificationTemplate) {
	t.Helper()
	require.NoError(t, fx.repo.Create(context.Background(), &tpl))
}

func (fx *reconcileFixture) get(t *testing.T, name string) *models.NotificationTemplate {
	t.Helper()
	tpl, err := fx.repo.Get(context.Background(), name)
	require.NoError(t, err)
	return tpl
}

func deletedAt(ts time.Time) *time.Time { return &ts }

func TestReconcileMissingTemplate(t *testing.T) {
	fx := newReconcileFixture(t)
	action, err := fx.rec.Reconcile(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
}

func TestReconcileRecreatesDeletedPluginTemplate(t *testing.T) {
	fx := newReconcileFixture(t)
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-comment",
		ReasonType:        "comment",
		Title:             "plugin title",
		HTMLBody:          "<p>custom</p>",
		CreationTimestamp: baseTime,
		DeletionTimestamp: deletedAt(baseTime.Add(2 * time.Hour)),
	})
	fx.seed(t, models.NotificationTemplate{
		Name:              "system-comment",
		ReasonType:        "comment",
		Title:             "system title",
		HTMLBody:          "<p>system</p>",
		RawBody:           "system raw",
		Version:           4,
		CreationTimestamp: baseTime.Add(time.Hour),
	})

	action, err := fx.rec.Reconcile(context.Background(), "template-one-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionRecreated, action)
	assert.Equal(t, []time.Duration{2 * time.Second}, fx.waits)

	recreated := fx.get(t, "template-one-comment")
	require.NotNil(t, recreated)
	assert.False(t, recreated.IsDeleted())
	assert.Equal(t, "<p>custom</p>", recreated.HTMLBody)
	assert.Equal(t, "system title", recreated.Title)
	assert.Equal(t, "system raw", recreated.RawBody)
	assert.Equal(t, int64(0), recreated.Version)
	assert.True(t, recreated.CreationTimestamp.Equal(fx.nowTime))

	system := fx.get(t, "system-comment")
	require.NotNil(t, system)
	assert.Equal(t, "<p>system</p>", system.HTMLBody)
}

func TestReconcileFinalizesWhenNoNewerTemplate(t *testing.T) {
	fx := newReconcileFixture(t)
	fx.seed(t, models.NotificationTemplate{
		Name:              "system-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime,
	})
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime.Add(time.Hour),
		DeletionTimestamp: deletedAt(baseTime.Add(2 * time.Hour)),
	})

	action, err := fx.rec.Reconcile(context.Background(), "template-one-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionFinalized, action)
	assert.Empty(t, fx.waits)
	assert.Nil(t, fx.get(t, "template-one-comment"))
}

func TestReconcileFinalizesDeletedPluginTemplateWithoutReasonType(t *testing.T) {
	fx := newReconcileFixture(t)
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-orphan",
		CreationTimestamp: baseTime,
		DeletionTimestamp: deletedAt(baseTime),
	})

	action, err := fx.rec.Reconcile(context.Background(), "template-one-orphan")
	require.NoError(t, err)
	assert.Equal(t, ActionFinalized, action)
	assert.Nil(t, fx.get(t, "template-one-orphan"))
}

func TestReconcileSupersedesOlderPluginTemplate(t *testing.T) {
	fx := newReconcileFixture(t)
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime,
	})
	fx.seed(t, models.NotificationTemplate{
		Name:              "system-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime.Add(time.Hour),
	})

	action, err := fx.rec.Reconcile(context.Background(), "system-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionSuperseded, action)

	one := fx.get(t, "template-one-comment")
	require.NotNil(t, one)
	assert.True(t, one.IsDeleted())
	assert.Equal(t, int64(1), one.Version)

	// already marked: a second pass leaves it alone
	action, err = fx.rec.Reconcile(context.Background(), "system-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
}

func TestReconcileKeepsNewerPluginTemplate(t *testing.T) {
	fx := newReconcileFixture(t)
	fx.seed(t, models.NotificationTemplate{
		Name:              "system-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime,
	})
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime.Add(time.Hour),
	})

	action, err := fx.rec.Reconcile(context.Background(), "system-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
	assert.False(t, fx.get(t, "template-one-comment").IsDeleted())

	action, err = fx.rec.Reconcile(context.Background(), "template-one-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
}

func TestSupersedeThenRecreateLeavesPluginTemplateNewest(t *testing.T) {
	fx := newReconcileFixture(t)
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-comment",
		ReasonType:        "comment",
		HTMLBody:          "<p>custom</p>",
		CreationTimestamp: baseTime,
	})
	fx.seed(t, models.NotificationTemplate{
		Name:              "system-comment",
		ReasonType:        "comment",
		HTMLBody:          "<p>system</p>",
		CreationTimestamp: baseTime.Add(time.Hour),
	})
	ctx := context.Background()

	_, err := fx.rec.Reconcile(ctx, "system-comment")
	require.NoError(t, err)
	action, err := fx.rec.Reconcile(ctx, "template-one-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionRecreated, action)

	one := fx.get(t, "template-one-comment")
	require.NotNil(t, one)
	assert.Equal(t, "<p>custom</p>", one.HTMLBody)
	assert.True(t, one.CreationTimestamp.After(fx.get(t, "system-comment").CreationTimestamp))

	action, err = fx.rec.Reconcile(ctx, "system-comment")
	require.NoError(t, err)
	assert.Equal(t, ActionNone, action)
}

func TestReconcileCanceledDuringDelay(t *testing.T) {
	fx := newReconcileFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx.rec.delay = time.Hour
	fx.rec.wait = func(waitCtx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(waitCtx, d)
	}
	fx.seed(t, models.NotificationTemplate{
		Name:              "template-one-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime,
		DeletionTimestamp: deletedAt(baseTime),
	})
	fx.seed(t, models.NotificationTemplate{
		Name:              "system-comment",
		ReasonType:        "comment",
		CreationTimestamp: baseTime.Add(time.Hour),
	})

	action, err := fx.rec.Reconcile(ctx, "template-one-comment")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ActionFinalized, action)
	assert.Nil(t, fx.get(t, "template-one-comment"))
}

func TestNewReconcilerValidation(t *testing.T) {
	_, err := NewReconciler(nil, logger.New(logger.Options{}), time.Second)
	assert.Error(t, err)
	_, err = NewReconciler(NewRepository(newTestDB(t)), nil, time.Second)
	assert.Error(t, err)
}
