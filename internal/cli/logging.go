// internal/cli/logging.go
package cli

import (
	"io"
	"log/slog"
	"os"
)

// newLogger builds a slog.Logger from the CLI's level and format
// strings. It does not set the global logger.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
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

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// configureLogging installs the configured logger as the process
// default. Library code logs through slog.Default.
func configureLogging(levelStr, formatStr string) {
	slog.SetDefault(newLogger(levelStr, formatStr, os.Stderr))
}
