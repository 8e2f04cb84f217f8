// Package logger provides structured logging for the bot.
// It uses Go's slog package with configurable level and output format,
// plus an optional JSONL file sink.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// New creates a new slog Logger with the specified level and format.
// If jsonOutput is true, console logs are formatted as JSON, otherwise as
// text. If filePath is non-empty, records are additionally appended to that
// file as JSON lines; a write failure there disables the file sink for the
// remainder of the process while console logging continues.
// The returned logger is also installed as the process default.
func New(levelStr string, jsonOutput bool, filePath string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var console slog.Handler
	if jsonOutput {
		console = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		console = slog.NewTextHandler(os.Stdout, opts)
	}

	handler := console
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			slog.New(console).Warn("Failed to open log file, continuing with console only", "path", filePath, "error", err)
		} else {
			fileSink := slog.NewJSONHandler(&failsafeWriter{w: f}, opts)
			handler = multiHandler{console, fileSink}
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Truncate shortens s to at most maxLen characters for log previews.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// failsafeWriter wraps the log file. The first write error disables all
// further writes instead of failing the logging call.
type failsafeWriter struct {
	w        io.Writer
	disabled atomic.Bool
}

func (fw *failsafeWriter) Write(p []byte) (int, error) {
	if fw.disabled.Load() {
		return len(p), nil
	}
	n, err := fw.w.Write(p)
	if err != nil {
		fw.disabled.Store(true)
		fmt.Fprintf(os.Stderr, "file logging disabled after write error: %v\n", err)
		return len(p), nil
	}
	return n, nil
}

// multiHandler fans records out to every handler in the slice.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
