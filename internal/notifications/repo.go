package notifications

import (
	"context"

	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes persistence helpers for the notification host records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindReasonType(ctx context.Context, name string) (*models.ReasonType, error)
	CreateReasonType(ctx context.Context, reasonType *models.ReasonType) error
	InsertSubscription(ctx context.Context, sub *models.Subscription) error
	FindSubscription(ctx context.Context, filter subscriptionFilter) (*models.Subscription, error)
	DeleteSubscriptions(ctx context.Context, filter subscriptionFilter) (int64, error)
	CreateReason(ctx context.Context, reason *models.Reason) error
	ListReasons(ctx context.Context, reasonType string) ([]models.Reason, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type subscriptionFilter struct {
	SubscriberName string
	ReasonType     string
	SubjectKind    string
	SubjectName    string
	Expression     string
}

func filterFor(subscriber Subscriber, reason InterestReason) subscriptionFilter {
	return subscriptionFilter{
		SubscriberName: subscriber.Name,
		ReasonType:     reason.ReasonType,
		SubjectKind:    reason.Subject.Kind,
		SubjectName:    reason.Subject.Name,
		Expression:     reason.Expression,
	}
}

func (f subscriptionFilter) apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"subscriber_name = ? AND reason_type = ? AND subject_kind = ? AND subject_name = ? AND expression = ?",
		f.SubscriberName, f.ReasonType, f.SubjectKind, f.SubjectName, f.Expression,
	)
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindReasonType(ctx context.Context, name string) (*models.ReasonType, error) {
	var rt models.ReasonType
	if err := r.db.WithContext(ctx).First(&rt, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *repositoryImpl) CreateReasonType(ctx context.Context, reasonType *models.ReasonType) error {
	return r.db.WithContext(ctx).Create(reasonType).Error
}

// InsertSubscription ignores rows that collide with an existing interest.
func (r *repositoryImpl) InsertSubscription(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub).Error
}

func (r *repositoryImpl) FindSubscription(ctx context.Context, filter subscriptionFilter) (*models.Subscription, error) {
	var sub models.Subscription
	if err := filter.apply(r.db.WithContext(ctx)).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repositoryImpl) DeleteSubscriptions(ctx context.Context, filter subscriptionFilter) (int64, error) {
	result := filter.apply(r.db.WithContext(ctx)).Delete(&models.Subscription{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) CreateReason(ctx context.Context, reason *models.Reason) error {
	return r.db.WithContext(ctx).Create(reason).Error
}

func (r *repositoryImpl) ListReasons(ctx context.Context, reasonType string) ([]models.Reason, error) {
	var reasons []models.Reason
	err := r.db.WithContext(ctx).
		Where("reason_type = ?", reasonType).
		Order("created_at ASC, id ASC").
		Find(&reasons).Error
	if err != nil {
		return nil, err
	}
	return reasons, nil
}
