package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/kunkunyu/mailtemplate/pkg/config"
	"github.com/kunkunyu/mailtemplate/pkg/db"
	"github.com/kunkunyu/mailtemplate/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		Driver: config.DriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRunUpCreatesModelTables(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), sqlDB, config.DriverSQLite, "up"))

	migrator := client.DB().Migrator()
	for _, model := range models.All() {
		assert.True(t, migrator.HasTable(model), "missing table for %T", model)
	}
	assert.True(t, migrator.HasColumn(&models.NotificationTemplate{}, "deletion_timestamp"))
	assert.True(t, migrator.HasColumn(&models.Reason{}, "attributes"))
}

func TestRunDownThenUp(t *testing.T) {
	client := openSQLite(t)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Run(ctx, sqlDB, config.DriverSQLite, "up"))
	require.NoError(t, Run(ctx, sqlDB, config.DriverSQLite, "down"))
	assert.False(t, client.DB().Migrator().HasTable(&models.NotificationTemplate{}))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "20250101000100"))
	assert.True(t, client.DB().Migrator().HasTable(&models.NotificationTemplate{}))
}

func TestRunRequiresDB(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, config.DriverSQLite, "up"))
}

func TestDialect(t *testing.T) {
	got, err := Dialect(config.DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", got)

	got, err = Dialect(config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", got)

	_, err = Dialect("mysql")
	assert.Error(t, err)
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir(embeddedDir))
	require.NoError(t, ValidateEmbedded())
}

func TestNotificationTemplateMigrationContents(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join(embeddedDir, "*_create_notification_templates.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no notification template migration found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS notification_templates",
		"deletion_timestamp TIMESTAMP",
		"DROP TABLE IF EXISTS notification_templates",
	} {
		assert.True(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Template Locale!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_template_locale.sql"))
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigrationRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := createSQLMigration(dir, "add locale", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250304050607_add_locale.sql"), path)

	_, err = createSQLMigration(dir, "add locale", at)
	assert.ErrorContains(t, err, "already exists")
}

func TestValidateFSRejectsNonPortableSQL(t *testing.T) {
	cases := map[string]string{
		"timestamptz":    "-- +goose Up\nCREATE TABLE t (at TIMESTAMPTZ);\n-- +goose Down\nDROP TABLE t;\n",
		"jsonb":          "-- +goose Up\nCREATE TABLE t (doc jsonb);\n-- +goose Down\nDROP TABLE t;\n",
		"down before up": "-- +goose Down\nDROP TABLE t;\n-- +goose Up\nCREATE TABLE t (id TEXT);\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"20250101000000_bad.sql": &fstest.MapFile{Data: []byte(body)},
			}
			assert.Error(t, ValidateFS(fsys, "."))
		})
	}
}

func TestValidateFSRejectsDuplicateVersions(t *testing.T) {
	ok := []byte("-- +goose Up\n-- +goose Down\n")
	fsys := fstest.MapFS{
		"20250101000000_a.sql": &fstest.MapFile{Data: ok},
		"20250101000000_b.sql": &fstest.MapFile{Data: ok},
	}
	assert.ErrorContains(t, ValidateFS(fsys, "."), "duplicate migration version")
}
