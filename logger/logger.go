package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Setup builds the process logger for env. Dev and prod write to path when
// it is set and to stdout otherwise.
func Setup(env, path string) (*slog.Logger, error) {
	var out io.Writer = os.Stdout
	if env != EnvLocal && path != "" {
		logFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = logFile
	}

	switch env {
	case EnvLocal, EnvDev:
		return slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
		), nil
	case EnvProd:
		return slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}),
		), nil
	default:
		return nil, fmt.Errorf("invalid environment: %s", env)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
