package qlog

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Style holds the colors used for level prefixes and attribute keys. A Style is a value; build
// it once and hand it to NewLogger.
type Style struct {
	Debug *color.Color
	Info  *color.Color
	Warn  *color.Color
	Error *color.Color
	Key   *color.Color
}

// DefaultStyle colors output when stderr is a terminal.
func DefaultStyle() Style {
	return NewStyle(!color.NoColor && isTerminal(os.Stderr))
}

// NewStyle returns the standard palette, or a plain one when enabled is false.
func NewStyle(enabled bool) Style {
	s := Style{
		Debug: color.New(color.FgHiBlack),
		Info:  color.New(color.FgCyan),
		Warn:  color.New(color.FgYellow, color.Bold),
		Error: color.New(color.FgRed, color.Bold),
		Key:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.Debug, s.Info, s.Warn, s.Error, s.Key} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// PlainStyle never emits escape sequences.
func PlainStyle() Style {
	return NewStyle(false)
}

func (s Style) prefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return s.Error.Sprint("error: ")
	case level >= slog.LevelWarn:
		return s.Warn.Sprint("warning: ")
	case level >= slog.LevelInfo:
		return s.Info.Sprint("info: ")
	default:
		return s.Debug.Sprint("debug: ")
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
