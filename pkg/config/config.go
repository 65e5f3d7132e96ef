package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MAILTEMPLATE"

	EnvAppEnv      = "MAILTEMPLATE_APP_ENV"
	EnvPort        = "MAILTEMPLATE_APP_PORT"
	EnvLogLevel    = "MAILTEMPLATE_LOG_LEVEL"
	EnvDBDSN       = "MAILTEMPLATE_DB_DSN"
	EnvDBDriver    = "MAILTEMPLATE_DB_DRIVER"
	EnvRedisURL    = "MAILTEMPLATE_REDIS_URL"
	EnvJWTSecret   = "MAILTEMPLATE_JWT_SECRET"
	EnvJWTIssuer   = "MAILTEMPLATE_JWT_ISSUER"
	EnvToastChan   = "MAILTEMPLATE_TOAST_CHANNEL"
	EnvReconcileOn = "MAILTEMPLATE_RECONCILER_ENABLED"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	StoreAPI   StoreAPIConfig
	Toast      ToastConfig
	Reconciler ReconcilerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAILTEMPLATE_APP_ENV" required:"true"`
	Port         string `envconfig:"MAILTEMPLATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MAILTEMPLATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAILTEMPLATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN         string `envconfig:"MAILTEMPLATE_DB_DSN" required:"true"`
	Driver      string `envconfig:"MAILTEMPLATE_DB_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"MAILTEMPLATE_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"MAILTEMPLATE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAILTEMPLATE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MAILTEMPLATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAILTEMPLATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q (want %s or %s)", EnvDBDriver, db.Driver, DriverPostgres, DriverSQLite)
	}
}

// IsSQLite reports whether the configured driver is SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"MAILTEMPLATE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"MAILTEMPLATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAILTEMPLATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAILTEMPLATE_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"MAILTEMPLATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAILTEMPLATE_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MAILTEMPLATE_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MAILTEMPLATE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MAILTEMPLATE_JWT_ISSUER" default:"halo-console"`
	ExpirationMinutes int    `envconfig:"MAILTEMPLATE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// StoreAPIConfig only tunes transport behaviour; the store origin itself is fixed.
type StoreAPIConfig struct {
	Timeout time.Duration `envconfig:"MAILTEMPLATE_STORE_API_TIMEOUT" default:"10s"`
}

type ToastConfig struct {
	Channel string `envconfig:"MAILTEMPLATE_TOAST_CHANNEL" default:"mailtemplate:toasts"`
	Log     bool   `envconfig:"MAILTEMPLATE_TOAST_LOG" default:"true"`
}

type ReconcilerConfig struct {
	Enabled       bool          `envconfig:"MAILTEMPLATE_RECONCILER_ENABLED" default:"true"`
	Interval      time.Duration `envconfig:"MAILTEMPLATE_RECONCILER_INTERVAL" default:"1m"`
	RecreateDelay time.Duration `envconfig:"MAILTEMPLATE_RECONCILER_RECREATE_DELAY" default:"2s"`
	LockTTL       time.Duration `envconfig:"MAILTEMPLATE_RECONCILER_LOCK_TTL" default:"5m"`
}
