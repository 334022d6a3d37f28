package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID creates a new unique run ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed.
// Each job calls this once so every log line of a run shares one id.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}

// LoggerWithContext returns the job logger with the run id of ctx bound, so
// records logged without a context still carry it.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With(traceIDKey, traceID)
	}
	return logger
}

// WithJob tags a logger with the batch job it runs for (etl, analysis)
func WithJob(logger *slog.Logger, job string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With("job", job)
}

// WithComponent tags a logger with the pipeline component writing through it
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With("component", component)
}

// WithError creates a logger with an error field
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
