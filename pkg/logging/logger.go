// Package logging provides the named, leveled logger used by the minicc
// driver and pipeline. Records are written either as aligned text lines, with
// lipgloss-styled level tags when colour is on, or as JSON objects.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Format selects the record encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds configuration for creating loggers
type Config struct {
	Name   string
	Level  Level
	Format Format
	Output io.Writer // defaults to os.Stderr
	Color  bool      // style level tags in text output
}

// Logger is a named wrapper around slog.
type Logger struct {
	name  string
	level *slog.LevelVar
	cfg   Config
	log   *slog.Logger
}

// New returns an info-level text logger writing to stderr.
func New(name string) *Logger {
	return NewWithConfig(Config{Name: name, Level: LevelInfo, Format: FormatText})
}

// NewWithConfig builds a Logger from cfg.
func NewWithConfig(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	lv := new(slog.LevelVar)
	lv.Set(cfg.Level.slogLevel())

	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(cfg.Output, &slog.HandlerOptions{Level: lv})
	} else {
		h = newLineHandler(cfg.Output, lv, cfg.Color)
	}
	log := slog.New(h)
	if cfg.Name != "" {
		log = log.With("logger", cfg.Name)
	}
	return &Logger{name: cfg.Name, level: lv, cfg: cfg, log: log}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return NewWithConfig(Config{Level: LevelError, Output: io.Discard})
}

// Name returns the logger name.
func (l *Logger) Name() string { return l.name }

// WithLevel returns a copy of the logger filtering at level.
func (l *Logger) WithLevel(level Level) *Logger {
	cfg := l.cfg
	cfg.Level = level
	return NewWithConfig(cfg)
}

// With returns a logger that adds the key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	cp := *l
	cp.log = l.log.With(args...)
	return &cp
}

// Enabled reports whether records at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level.slogLevel() >= l.level.Level()
}

func (l *Logger) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log.Error(msg, args...) }
