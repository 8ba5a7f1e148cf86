package logging

import (
	"context"
	"log/slog"
	"os"
)

type (
	ctxLoggerKey  struct{}
	ctxTraceIDKey struct{}
)

// LoggerFromContext returns the request-scoped logger, or the process-wide
// logger when ctx carries none.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Logger()
	}
	if l, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Logger()
}

// TraceIDFromContext returns the correlation id (trace resource or request id).
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxTraceIDKey{}).(string)
	return id, ok && id != ""
}

// WithUserID returns a context whose logger tags every record with uid.
func WithUserID(ctx context.Context, uid string) context.Context {
	if uid == "" {
		return ctx
	}
	return contextWithLogger(ctx, LoggerFromContext(ctx).With(slog.String("userId", uid)))
}

// LogDebug writes a debug message with the request-aware logger.
func LogDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// LogInfo writes an informational message with the request-aware logger.
func LogInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// LogWarn writes a warning with the request-aware logger.
func LogWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// LogError writes an error message and appends err when non-nil.
func LogError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// LogFatal logs with emergency severity and exits the process.
func LogFatal(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	LoggerFromContext(ctx).LogAttrs(ctx, levelEmergency, msg, attrs...)
	os.Exit(1)
}

func contextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

func contextWithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTraceIDKey{}, traceID)
}
