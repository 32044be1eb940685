package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"authapi/config"
	deliverycontext "authapi/internal/delivery/context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Outcomes the user repository turns into domain errors. They are part of
// normal traffic, so they are logged at debug level only.
const (
	outcomeNotFound       = "user_not_found"
	outcomeDuplicateEmail = "duplicate_email"
)

// queryLogger routes GORM output to slog. Bound parameters are never rendered
// into logged SQL since the users table stores password hashes.
type queryLogger struct {
	logger *slog.Logger
	level  logger.LogLevel
}

var (
	_ logger.Interface  = (*queryLogger)(nil)
	_ gorm.ParamsFilter = (*queryLogger)(nil)
)

func newQueryLogger(baseLogger *slog.Logger, cfg *config.Config) *queryLogger {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &queryLogger{
		logger: baseLogger.With(slog.String("component", "users-store")),
		level:  level,
	}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

// ParamsFilter drops bound values so logged SQL keeps its $n placeholders.
func (l *queryLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logf(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *queryLogger) logf(ctx context.Context, minLevel logger.LogLevel, level slog.Level, msg string, args ...any) {
	if l.level < minLevel {
		return
	}

	l.logger.LogAttrs(ctx, level, "Users store message",
		slog.String("request_id", deliverycontext.GetRequestIDFromContext(ctx)),
		slog.String("message", fmt.Sprintf(msg, args...)),
	)
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	level, msg, extra := l.classify(err, elapsed)
	if level < slog.LevelWarn && l.level < logger.Info {
		return
	}

	sql, rows := sqlAndRowsFn()
	attrs := append([]slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestIDFromContext(ctx)),
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}, extra...)

	l.logger.LogAttrs(ctx, level, msg, attrs...)
}

// classify picks the level and message for a finished statement.
func (l *queryLogger) classify(err error, elapsed time.Duration) (slog.Level, string, []slog.Attr) {
	switch {
	case err == nil && elapsed > slowQueryThreshold:
		return slog.LevelWarn, "Slow users query", []slog.Attr{slog.Duration("threshold", slowQueryThreshold)}
	case err == nil:
		return slog.LevelDebug, "Users query", nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return slog.LevelDebug, "Users query", []slog.Attr{slog.String("outcome", outcomeNotFound)}
	case isUniqueConstraintViolation(err):
		return slog.LevelDebug, "Users query", []slog.Attr{slog.String("outcome", outcomeDuplicateEmail)}
	default:
		return slog.LevelError, "Users query failed", []slog.Attr{slog.Any("error", err)}
	}
}
