// Package logging wraps log/slog with credential sanitization and the
// context helpers the rest of rcpilot attaches to its log lines.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Logger is a slog.Logger that scrubs secrets from every record.
type Logger struct {
	*slog.Logger
	sanitizer *Sanitizer
}

// Config controls level, format and destination.
type Config struct {
	Level     string
	Format    string // auto, text, json
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns info-level auto-format logging to stdout.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "auto",
		Output: os.Stdout,
	}
}

// New builds a logger for cfg. The auto format picks the pretty handler
// when stdout is a terminal and JSON otherwise, so piped output stays
// machine-parseable.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	sanitizer := NewSanitizer()
	handler := NewSanitizingHandler(baseHandler(cfg), sanitizer)
	return &Logger{Logger: slog.New(handler), sanitizer: sanitizer}
}

func baseHandler(cfg Config) slog.Handler {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(cfg.Output, opts)
	case "text":
		return slog.NewTextHandler(cfg.Output, opts)
	default:
		if isTerminal(cfg.Output) {
			return NewPrettyHandler(cfg.Output, level)
		}
		return slog.NewJSONHandler(cfg.Output, opts)
	}
}

// NewNop returns a logger that discards everything. Used in tests and as
// the fallback when a component is built without an explicit logger.
func NewNop() *Logger {
	return &Logger{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sanitizer: NewSanitizer(),
	}
}

func parseLevel(s string) slog.Level {
	switch s {
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

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WithService tags records with the owning rclone service (vfs, mount, s3).
func (l *Logger) WithService(service string) *Logger {
	return l.With("service", service)
}

// WithOption tags records with a composite option key.
func (l *Logger) WithOption(key string) *Logger {
	return l.With("option", key)
}

// WithRemote tags records with the daemon endpoint being talked to.
func (l *Logger) WithRemote(url string) *Logger {
	return l.With("remote", url)
}

// With returns a logger with extra fields, keeping the sanitizer.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), sanitizer: l.sanitizer}
}

// Sanitizer exposes the logger's sanitizer for scrubbing values outside
// the log path, like history entries.
func (l *Logger) Sanitizer() *Sanitizer {
	return l.sanitizer
}

// Sanitize scrubs input with the logger's sanitizer.
func (l *Logger) Sanitize(input string) string {
	return l.sanitizer.Sanitize(input)
}
