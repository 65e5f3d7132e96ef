package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// gormLogger routes GORM's diagnostics into the structured logger. Only failed
// and slow statements are reported; record-not-found is an expected outcome.
type gormLogger struct {
	logg  *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func newGormLogger(logg *logger.Logger) gormlogger.Interface {
	return &gormLogger{logg: logg, level: gormlogger.Warn, slow: slowQueryThreshold}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.logg.Debug(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.logg.Error(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		ctx = g.logg.WithFields(ctx, map[string]any{"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds()})
		g.logg.Error(ctx, "db.query_failed", err)
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		sql, rows := fc()
		ctx = g.logg.WithFields(ctx, map[string]any{"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds()})
		g.logg.Warn(ctx, "db.query_slow")
	}
}
