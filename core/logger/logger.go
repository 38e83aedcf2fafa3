package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum record level: debug, info, warn, or error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format selects the output encoding: text or json.
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// New builds a logger from cfg writing to stderr. Extra attributes are
// attached to every record.
func New(cfg Config, attrs ...slog.Attr) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg, attrs...)
}

// NewWithWriter is New with an explicit output, primarily for tests.
func NewWithWriter(w io.Writer, cfg Config, attrs ...slog.Attr) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record. Components use it as
// their default so logging stays opt-in.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
