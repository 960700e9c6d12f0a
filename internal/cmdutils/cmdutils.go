package cmdutils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	// Register pgx driver for the database readiness check
	_ "github.com/jackc/pgx/v5/stdlib"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/logging"
	"github.com/barangay-connect/member-portal/internal/status"
)

func CobraCommand(
	use, short, long string,
	wrapperFunc func(context.Context, func(context.Context, *config.Config) error, *config.Config) error,
	businessFunc func(context.Context, *config.Config) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			err = wrapperFunc(cmd.Context(), businessFunc, cfg)
			if err != nil {
				return fmt.Errorf("running the command: %w", err)
			}

			return nil
		},
	}
}

// RunAsService runs fn with the status server alongside it.
func RunAsService(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
	return run(ctx, true, fn, cfg)
}

// RunAsJob runs fn to completion without the status server.
func RunAsJob(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
	return run(ctx, false, fn, cfg)
}

func run(ctx context.Context, withStatusServer bool, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
	err := logging.InitAsDefault(cfg.Logger, cfg.Application)
	if err != nil {
		return oops.In("main").
			Wrapf(err, "Failed to initialise the logger")
	}
	slogctx.Debug(ctx, "Starting the application", slog.Any("config", cfg))

	if withStatusServer {
		go func() {
			err := status.Start(ctx, cfg, statusCheckers(cfg)...)
			if err != nil {
				slogctx.Error(ctx, "Failure on the status server", "error", err)
				_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
			}
		}()
	}

	err = fn(ctx, cfg)
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to start the main business application")
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}

	err := config.LoadConfig(
		cfg,
		"/etc/member-portal",
		"$HOME/.member-portal",
		".",
	)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return cfg, nil
}

// statusCheckers builds the readiness checks matching the configured storage
// backend.
func statusCheckers(cfg *config.Config) []status.Checker {
	if cfg.Storage.Backend != config.StoragePostgres {
		return nil
	}

	connStr := config.MakeConnStr(cfg.Database)

	return []status.Checker{{
		Name: "database",
		Check: func(ctx context.Context) error {
			db, err := sql.Open("pgx", connStr)
			if err != nil {
				return fmt.Errorf("opening db connection: %w", err)
			}
			defer db.Close()

			return db.PingContext(ctx)
		},
	}}
}
