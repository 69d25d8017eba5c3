// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"log/slog"
	"sort"
)

// Logger defines the minimal logging interface used by the client.
// Implementations should be safe for concurrent use.
type Logger interface {
	// Debug logs debug-level messages with structured fields
	Debug(ctx context.Context, msg string, fields map[string]interface{})

	// Info logs info-level messages with structured fields
	Info(ctx context.Context, msg string, fields map[string]interface{})

	// Warn logs warning-level messages with structured fields
	Warn(ctx context.Context, msg string, fields map[string]interface{})

	// Error logs error-level messages with structured fields
	Error(ctx context.Context, msg string, fields map[string]interface{})
}

// noopLogger provides a no-op implementation of Logger
type noopLogger struct{}

func (n *noopLogger) Debug(_ context.Context, _ string, _ map[string]interface{}) {}
func (n *noopLogger) Info(_ context.Context, _ string, _ map[string]interface{})  {}
func (n *noopLogger) Warn(_ context.Context, _ string, _ map[string]interface{})  {}
func (n *noopLogger) Error(_ context.Context, _ string, _ map[string]interface{}) {}

// NewNoopLogger returns a logger that discards all messages
func NewNoopLogger() Logger {
	return &noopLogger{}
}

// slogLogger forwards to a *slog.Logger.
type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger adapts a *slog.Logger to Logger. A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

func (s *slogLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs(fields)...)
}

func (s *slogLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs(fields)...)
}

func (s *slogLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs(fields)...)
}

func (s *slogLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs(fields)...)
}

// attrs converts fields to slog attributes in key order so output is stable.
func attrs(fields map[string]interface{}) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
