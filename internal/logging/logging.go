// Package logging initialises the process-wide slog default from config.
// Handlers are wrapped with slog-context so that attributes attached to a
// request context travel with every log line.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/config"
)

// InitAsDefault builds the configured handler and installs it as the slog
// default logger.
func InitAsDefault(cfg config.Logger, app config.Application) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json", "":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("application", app.Name),
		slog.String("environment", app.Environment),
	})

	slog.SetDefault(slog.New(slogctx.NewHandler(handler, nil)))

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, fmt.Errorf("unknown log level: %q", s)
}
