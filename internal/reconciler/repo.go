package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for notification templates.
type Repository interface {
	Get(ctx context.Context, name string) (*models.NotificationTemplate, error)
	ListNames(ctx context.Context) ([]string, error)
	OldestLive(ctx context.Context, reasonType string) (*models.NotificationTemplate, error)
	Create(ctx context.Context, tpl *models.NotificationTemplate) error
	MarkDeleted(ctx context.Context, name string, at time.Time) error
	Finalize(ctx context.Context, name string) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a template repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// Get returns nil, nil when the template does not exist.
func (r *repositoryImpl) Get(ctx context.Context, name string) (*models.NotificationTemplate, error) {
	var tpl models.NotificationTemplate
	err := r.db.WithContext(ctx).First(&tpl, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *repositoryImpl) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.NotificationTemplate{}).
		Order("creation_timestamp ASC, name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// OldestLive returns the earliest-created template of a reason type that is
// not marked for deletion, or nil when there is none.
func (r *repositoryImpl) OldestLive(ctx context.Context, reasonType string) (*models.NotificationTemplate, error) {
	var tpls []models.NotificationTemplate
	err := r.db.WithContext(ctx).
		Where("reason_type = ? AND deletion_timestamp IS NULL", reasonType).
		Order("creation_timestamp ASC, name ASC").
		Limit(1).
		Find(&tpls).Error
	if err != nil {
		return nil, err
	}
	if len(tpls) == 0 {
		return nil, nil
	}
	return &tpls[0], nil
}

func (r *repositoryImpl) Create(ctx context.Context, tpl *models.NotificationTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *repositoryImpl) MarkDeleted(ctx context.Context, name string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationTemplate{}).
		Where("name = ? AND deletion_timestamp IS NULL", name).
		Updates(map[string]any{
			"deletion_timestamp": at,
			"version":            gorm.Expr("version + 1"),
		}).Error
}

// Finalize removes a template that is already marked for deletion.
func (r *repositoryImpl) Finalize(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).
		Where("name = ? AND deletion_timestamp IS NOT NULL", name).
		Delete(&models.NotificationTemplate{}).Error
}
