package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/instant-jisho/internal/config"
)

// NewLogger builds the process logger for the named binary and installs it
// as the slog default. Output goes to stderr: JSON for "json", text with
// source locations otherwise.
func NewLogger(cfg config.LogConfig, service string) *slog.Logger {
	logger := newLogger(os.Stderr, cfg, service)
	slog.SetDefault(logger)

	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig, service string) *slog.Logger {
	isJSON := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !isJSON,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if isJSON {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("service", service))
}

// parseLevel accepts slog level names in any case ("debug", "WARN",
// "info+2"). Anything else is info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
