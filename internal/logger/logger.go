// Package logger provides verbose logging for azdo-mcp.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr. Stdout is reserved for the MCP stdio transport,
// so nothing here ever writes to it.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = newHandlerLogger(os.Stderr)
)

func newHandlerLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = newHandlerLogger(w)
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	log(slog.LevelDebug, format, args...)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	log(slog.LevelInfo, format, args...)
}

// Warn logs a warning if verbose mode is enabled.
func Warn(format string, args ...any) {
	log(slog.LevelWarn, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// With returns a structured logger carrying attrs. It is silent unless
// verbose mode is enabled when a record is emitted.
func With(attrs ...any) *slog.Logger {
	return slog.New(verboseHandler{}).With(attrs...)
}

func log(level slog.Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		base.Log(context.Background(), level, fmt.Sprintf(format, args...))
	}
}

// verboseHandler forwards records to the current base logger while verbose.
// Attrs and groups are replayed onto the base handler in the order given.
type verboseHandler struct {
	steps []handlerStep
}

// handlerStep is one WithAttrs or WithGroup call.
type handlerStep struct {
	group string
	attrs []slog.Attr
}

func (h verboseHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return IsVerbose()
}

func (h verboseHandler) Handle(ctx context.Context, r slog.Record) error {
	mu.RLock()
	handler := base.Handler()
	mu.RUnlock()
	for _, s := range h.steps {
		if s.group != "" {
			handler = handler.WithGroup(s.group)
		} else {
			handler = handler.WithAttrs(s.attrs)
		}
	}
	return handler.Handle(ctx, r)
}

func (h verboseHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerStep{attrs: attrs})
}

func (h verboseHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerStep{group: name})
}

func (h verboseHandler) with(s handlerStep) verboseHandler {
	steps := make([]handlerStep, 0, len(h.steps)+1)
	steps = append(steps, h.steps...)
	return verboseHandler{steps: append(steps, s)}
}
