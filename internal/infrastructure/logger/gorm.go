package logger

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

var (
	sqlStringLiteral  = regexp.MustCompile(`'(?:[^']|'')*'`)
	sqlNumericLiteral = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
)

// GormLogger writes GORM statements to zap. Unless full SQL is enabled,
// literal values are masked so customer ids and prices stay out of the logs.
type GormLogger struct {
	logger        *zap.Logger
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
	fullSQL       bool
	logNotFound   bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as slow.
// Zero disables slow statement warnings.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// WithFullSQL logs statements with their bound values
func WithFullSQL(enabled bool) GormLoggerOption {
	return func(l *GormLogger) {
		l.fullSQL = enabled
	}
}

// WithRecordNotFound logs lookups of missing bills and items as errors.
// They are part of normal 404 handling and skipped by default.
func WithRecordNotFound(enabled bool) GormLoggerOption {
	return func(l *GormLogger) {
		l.logNotFound = enabled
	}
}

// NewGormLogger creates a GORM logger writing to the "gorm" child of zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		logLevel:      level,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		l.logger.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.logger.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		l.logger.Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface. Failed statements are logged at
// error, slow ones at warn and everything else at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && (l.logNotFound || !errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowThreshold != 0 && elapsed > l.slowThreshold

	switch {
	case failed && l.logLevel >= gormlogger.Error:
		l.logger.Error("Database statement failed", append(l.statementFields(ctx, elapsed, fc), zap.Error(err))...)
	case slow && l.logLevel >= gormlogger.Warn:
		l.logger.Warn("Slow database statement",
			append(l.statementFields(ctx, elapsed, fc), zap.Duration("threshold", l.slowThreshold))...)
	case err == nil && l.logLevel >= gormlogger.Info:
		l.logger.Debug("Database statement", l.statementFields(ctx, elapsed, fc)...)
	}
}

func (l *GormLogger) statementFields(ctx context.Context, elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	if !l.fullSQL {
		sql = MaskSQL(sql)
	}

	fields := []zap.Field{
		zap.String("operation", sqlOperation(sql)),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}

// MaskSQL replaces string and numeric literals in sql with '?'
func MaskSQL(sql string) string {
	sql = sqlStringLiteral.ReplaceAllString(sql, "?")
	return sqlNumericLiteral.ReplaceAllString(sql, "?")
}

// sqlOperation returns the leading keyword of a statement, e.g. "SELECT"
func sqlOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// MapGormLogLevel maps the application log level to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
