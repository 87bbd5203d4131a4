package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/itonse/account/internal/config"
)

// NewLogger creates a JSON slog.Logger configured from LOG_LEVEL and tagged
// with the application name.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the noise when debugging
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("app", cfg.Application.Name)
	logger.Info("logger initialized", "level", level)

	return logger
}
