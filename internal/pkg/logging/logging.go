// Package logging installs the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/aptradar/aptradar/internal/pkg/config"
)

// Setup builds a slog logger from the loaded configuration and installs
// it as the default. Unknown levels fall back to info, unknown formats
// to JSON.
func Setup(cfg config.LogConfig) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
