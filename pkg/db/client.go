package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kunkunyu/mailtemplate/pkg/config"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Client wraps the shared GORM connection and remembers which driver backs it.
type Client struct {
	conn    *gorm.DB
	dialect string
}

// New opens the configured database, applies pool limits and pings it once.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	dialector, dialect := dialectorFor(cfg)
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(logg),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", dialect, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	applyPoolSettings(sqlDB, cfg)

	client := &Client{conn: conn, dialect: dialect}
	if err := client.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	ctx = logg.WithField(ctx, "db_driver", dialect)
	logg.Info(ctx, "database connection established")
	return client, nil
}

// NewFromGorm wraps an existing connection, e.g. one opened by a test.
func NewFromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn, dialect: conn.Dialector.Name()}
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, string) {
	if cfg.IsSQLite() {
		return sqlite.Open(cfg.DSN), config.DriverSQLite
	}
	return postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), config.DriverPostgres
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Dialect reports the active driver name ("postgres" or "sqlite").
func (c *Client) Dialect() string {
	return c.dialect
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction; an error or panic from fn rolls it back.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
