// Package qlog is the CLI logger: a slog.Logger with a compact stderr handler.
package qlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger wraps slog.Logger with convenience methods
type Logger struct {
	*slog.Logger
}

// simpleHandler formats logs in a clean, CLI-friendly way
type simpleHandler struct {
	level  slog.Leveler
	style  Style
	attrs  []slog.Attr
	mu     *sync.Mutex
	output io.Writer
}

func (h *simpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *simpleHandler) Handle(_ context.Context, r slog.Record) error {
	// Format: <prefix> message key=value, key=value
	var b strings.Builder

	b.WriteString(h.style.prefix(r.Level))
	b.WriteString(r.Message)

	first := true
	writeAttr := func(a slog.Attr) bool {
		if a.Equal(slog.Attr{}) {
			return true
		}
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(h.style.Key.Sprint(a.Key))
		b.WriteString("=")
		b.WriteString(a.Value.Resolve().String())
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)

	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.output, b.String())
	return err
}

func (h *simpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *simpleHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened.
	return h
}

// NewLogger creates a logger writing to output (stderr when nil) with the given style.
func NewLogger(level slog.Leveler, output io.Writer, style Style) *Logger {
	if output == nil {
		output = os.Stderr
	}

	handler := &simpleHandler{
		level:  level,
		style:  style,
		mu:     &sync.Mutex{},
		output: output,
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewDefault creates a logger with INFO level on stderr
func NewDefault() *Logger {
	return NewLogger(slog.LevelInfo, os.Stderr, DefaultStyle())
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: use debug, info, warn or error", s)
	}
	return level, nil
}

// Fatal logs at ERROR level and exits with code 1
func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}

// Fatalf formats and logs at ERROR level, then exits with code 1
func (l *Logger) Fatalf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
