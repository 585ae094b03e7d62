package logging

import (
	"log/slog"
	"os"
)

// New builds the JSON logger shared by every service binary. The service
// name is attached to every record so aggregated logs stay attributable.
func New(service string) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_DEBUG") != "" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With("service", service)
}
