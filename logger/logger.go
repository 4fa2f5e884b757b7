// Package logger creates the slog loggers used by datagrid components
// and the render command.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level is the shared minimum level of all loggers created by this package.
var Level = &slog.LevelVar{}

// SetLevelByName sets Level by a case-insensitive level name.
// Unknown names leave Level unchanged and return false.
func SetLevelByName(name string) bool {
	switch strings.ToLower(name) {
	case "err", "error":
		Level.Set(slog.LevelError)
	case "warn", "warning":
		Level.Set(slog.LevelWarn)
	case "info":
		Level.Set(slog.LevelInfo)
	case "debug":
		Level.Set(slog.LevelDebug)
	default:
		return false
	}
	return true
}

// New returns a logger writing to w.
// Terminals get colored tint output without timestamps,
// everything else gets slog text output with lower case levels.
func New(w io.Writer) *slog.Logger {
	if isTerminal(w) {
		return slog.New(newTerminalHandler(w))
	}
	return slog.New(newTextHandler(w))
}

// Default returns a logger writing to os.Stderr.
func Default() *slog.Logger {
	return New(os.Stderr)
}

// Discard returns a logger that drops all records.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(99)}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				v := a.Value.Any().(slog.Level)
				a.Value = slog.StringValue(strings.ToLower(v.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		AddSource: Level.Level() <= slog.LevelDebug,
		Level:     Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}
