package canvas

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is the minimal logging interface used throughout go-canvas.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
// This enables integration with Go's structured logging facilities.
//
// Example:
//
//	// Use default slog logger
//	opts := canvas.DefaultOptions()
//	opts.Logger = canvas.NewSlogAdapter(slog.Default())
//
//	// Use a custom slog handler
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	opts.Logger = canvas.NewSlogAdapter(slog.New(handler))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger adapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs a debug-level message with optional key-value pairs.
func (s *SlogAdapter) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

// Info logs an info-level message with optional key-value pairs.
func (s *SlogAdapter) Info(msg string, args ...any) {
	s.logger.Info(msg, args...)
}

// Warn logs a warning-level message with optional key-value pairs.
func (s *SlogAdapter) Warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// Error logs an error-level message with optional key-value pairs.
func (s *SlogAdapter) Error(msg string, args ...any) {
	s.logger.Error(msg, args...)
}

// Slog returns the wrapped *slog.Logger.
func (s *SlogAdapter) Slog() *slog.Logger {
	return s.logger
}

// DefaultLogger returns a Logger configured for typical use cases.
// It logs to stderr with text format at Info level.
// For more control, use NewSlogAdapter with a custom slog.Handler.
func DefaultLogger() Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &SlogAdapter{logger: slog.New(handler)}
}

// JSONLogger returns a Logger that outputs JSON-formatted logs.
// This is suitable for production environments with log aggregation systems.
func JSONLogger(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &SlogAdapter{logger: slog.New(handler)}
}

// NopLogger returns a Logger that discards all log messages.
// Use this when logging should be completely disabled.
func NopLogger() Logger {
	return &nopLogger{}
}

// nopLogger implements Logger but discards all messages.
type nopLogger struct{}

func (n *nopLogger) Debug(msg string, args ...any) {}
func (n *nopLogger) Info(msg string, args ...any)  {}
func (n *nopLogger) Warn(msg string, args ...any)  {}
func (n *nopLogger) Error(msg string, args ...any) {}

// slogFor returns a *slog.Logger that forwards to l, for components that
// log through log/slog directly (the widget package's out-of-bounds
// diagnostics). A SlogAdapter unwraps to its own logger; any other
// implementation is bridged through a minimal handler.
func slogFor(l Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	if sa, ok := l.(*SlogAdapter); ok {
		return sa.Slog()
	}
	return slog.New(bridgeHandler{logger: l})
}

// bridgeHandler forwards slog records to a Logger. Handler attributes
// and groups are not accumulated; records carry their own attributes.
type bridgeHandler struct {
	logger Logger
}

func (h bridgeHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h bridgeHandler) Handle(_ context.Context, r slog.Record) error {
	args := make([]any, 0, r.NumAttrs()*2)
	r.Attrs(func(a slog.Attr) bool {
		args = append(args, a.Key, a.Value.Any())
		return true
	})
	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, args...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, args...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, args...)
	default:
		h.logger.Debug(r.Message, args...)
	}
	return nil
}

func (h bridgeHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h bridgeHandler) WithGroup(string) slog.Handler { return h }
