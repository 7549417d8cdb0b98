package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxSQLLength bounds the statement text written to the log.
const maxSQLLength = 1000

// GormLogger writes the queries of the development Users API to zap. Every
// entry carries the request and session IDs forwarded by the admin screen, so
// a grid reload can be followed from the browser down to its SELECT.
type GormLogger struct {
	log   *zap.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger. Queries slower than slowQuerySeconds
// are logged as warnings; level follows LOG_LEVEL.
func NewGormLogger(l *zap.Logger, slowQuerySeconds float64, level string) *GormLogger {
	return &GormLogger{
		log:   l.Named("gorm"),
		slow:  time.Duration(slowQuerySeconds * float64(time.Second)),
		level: gormLevel(level),
	}
}

func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		WithContext(ctx, l.log).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx, l.log).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		WithContext(ctx, l.log).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface. Missing users are expected on
// lookups and deletes, so ErrRecordNotFound is logged at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.String("statement", statementKind(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if len(sql) > maxSQLLength {
		fields = append(fields, zap.String("sql", sql[:maxSQLLength]+"..."), zap.Bool("sql_truncated", true))
	} else {
		fields = append(fields, zap.String("sql", sql))
	}

	log := WithContext(ctx, l.log)

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		log.Debug("user not found", fields...)
	case err != nil:
		if l.level >= gormlogger.Error {
			log.Error("query failed", append(fields, zap.Error(err))...)
		}
	case l.slow > 0 && elapsed > l.slow:
		if l.level >= gormlogger.Warn {
			log.Warn("slow query", append(fields, zap.Duration("threshold", l.slow))...)
		}
	case l.level >= gormlogger.Info:
		log.Debug("query", fields...)
	}
}

// statementKind returns the leading SQL keyword, such as SELECT or DELETE.
func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \t\n"); i > 0 {
		sql = sql[:i]
	}
	return strings.ToUpper(sql)
}
