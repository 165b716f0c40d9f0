// Package logger builds the application's structured logger.
package logger

import (
	"io"
	"os"

	"golang.org/x/exp/slog"

	"gridiron/internal/config"
)

// Setup returns a logger configured for the given environment.
func Setup(env string) *slog.Logger {
	return New(env, os.Stdout)
}

// New returns a logger for env writing to w.
func New(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
