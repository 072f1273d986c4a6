// Package logging builds the process-wide slog configuration shared by
// the api and worker binaries.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger builds the structured logger. Every log line carries the
// service name so api and worker output can be told apart when streams are
// aggregated.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With(slog.String("service", service))
}

// parseLevel accepts slog's level names plus the "warning" alias; anything
// unrecognized falls back to info rather than failing startup.
func parseLevel(level string) slog.Level {
	text := strings.TrimSpace(level)
	if strings.EqualFold(text, "warning") {
		return slog.LevelWarn
	}

	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(text)); err != nil {
		return slog.LevelInfo
	}
	return parsed
}
