package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Name: "admin", Email: " admin@example.com "})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", found.Email)

	require.NoError(t, repo.UpdateEmail(ctx, "admin", "ops@example.com"))
	found, err = repo.FindByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", found.Email)
}

func TestRepositoryFindMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	_, err := repo.FindByName(context.Background(), "ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
