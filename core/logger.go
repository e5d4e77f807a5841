package core

import (
	"io"
	"log/slog"
	"os"
	"sort"
)

// StructuredLogger implements Logger on top of log/slog, honoring the
// level and format from LoggingConfig.
type StructuredLogger struct {
	s *slog.Logger
}

// NewStructuredLogger creates a logger writing to stdout.
func NewStructuredLogger(cfg LoggingConfig) *StructuredLogger {
	return newStructuredLogger(cfg, os.Stdout)
}

func newStructuredLogger(cfg LoggingConfig, w io.Writer) *StructuredLogger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &StructuredLogger{s: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *StructuredLogger) Info(msg string, fields map[string]interface{}) {
	l.s.Info(msg, attrs(fields)...)
}

func (l *StructuredLogger) Error(msg string, fields map[string]interface{}) {
	l.s.Error(msg, attrs(fields)...)
}

func (l *StructuredLogger) Warn(msg string, fields map[string]interface{}) {
	l.s.Warn(msg, attrs(fields)...)
}

func (l *StructuredLogger) Debug(msg string, fields map[string]interface{}) {
	l.s.Debug(msg, attrs(fields)...)
}

// attrs converts a field map to slog key/value pairs in key order, so
// the same event always serializes the same way.
func attrs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}
