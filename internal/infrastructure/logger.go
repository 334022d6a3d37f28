package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"olistcli/internal/config"
)

// traceIDKey is the attribute name carrying the run id on every record
const traceIDKey = "trace_id"

type contextKey string

// TraceIDContextKey stores the run id in a context
const TraceIDContextKey contextKey = traceIDKey

var (
	jobLogger     *slog.Logger
	jobLoggerOnce sync.Once

	logFileMu sync.Mutex
	logFile   *os.File

	// Job output (progress lines, summaries) owns stdout, so console logs go
	// to stderr.
	consoleWriter io.Writer = os.Stderr
)

// InitializeLogger builds the JSON logger of a job run from cfg and installs
// it as the slog default. Only the first call has an effect.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	jobLoggerOnce.Do(func() {
		var w io.Writer
		if w, err = logOutput(cfg); err != nil {
			return
		}
		jobLogger = slog.New(&traceHandler{Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     parseLogLevel(cfg.Level),
		})})
		slog.SetDefault(jobLogger)
	})
	return jobLogger, err
}

// GetLogger returns the job logger, or slog's default before initialization
func GetLogger() *slog.Logger {
	if jobLogger == nil {
		return slog.Default()
	}
	return jobLogger
}

// NewLogger returns an independent JSON logger on w with run id support
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(&traceHandler{Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)})})
}

// logOutput picks the destination for cfg.Output: console, file or both
func logOutput(cfg config.LoggingConfig) (io.Writer, error) {
	output := strings.ToLower(cfg.Output)
	if output != "file" && output != "both" {
		return consoleWriter, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	logFileMu.Lock()
	logFile = f
	logFileMu.Unlock()

	if output == "both" {
		return io.MultiWriter(consoleWriter, f), nil
	}
	return f, nil
}

// traceHandler stamps records with the run id found in their context. A
// logger that already carries trace_id as a bound attribute is left alone.
type traceHandler struct {
	slog.Handler
	bound bool
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.bound {
		if id := GetTraceID(ctx); id != "" {
			r.AddAttrs(slog.String(traceIDKey, id))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.bound
	for _, a := range attrs {
		if a.Key == traceIDKey {
			bound = true
		}
	}
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs), bound: bound}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name), bound: h.bound}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTraceID returns ctx carrying the run id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the run id in ctx, or ""
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDContextKey).(string)
	return id
}

// CloseLogFile closes the log file opened by InitializeLogger, if any
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting forgets the job logger so tests can initialize again
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	jobLogger = nil
	jobLoggerOnce = sync.Once{}
}
