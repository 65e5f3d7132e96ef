package users

import (
	"context"
	"strings"
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Email = strings.TrimSpace(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByName loads a user by its login name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateEmail overwrites the user's email address.
func (r *Repository) UpdateEmail(ctx context.Context, name, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("name = ?", name).
		UpdateColumn("email", strings.TrimSpace(email)).Error
}
