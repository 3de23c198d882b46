package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/aptradar/aptradar/internal/pkg/config"
)

func TestSetupLevel(t *testing.T) {
	ctx := context.Background()

	logger := Setup(config.LogConfig{Level: "debug", Format: "text"})
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug to be enabled")
	}

	logger = Setup(config.LogConfig{Level: "warn", Format: "json"})
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}

	// Unknown level falls back to info.
	logger = Setup(config.LogConfig{Level: "loud"})
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug to be disabled at fallback level")
	}
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected info to be enabled at fallback level")
	}
}
