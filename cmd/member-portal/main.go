package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/cmd/member-portal/housekeeper"
	"github.com/barangay-connect/member-portal/cmd/member-portal/migrate"
	"github.com/barangay-connect/member-portal/cmd/member-portal/server"
)

var (
	// BuildInfo will be set by the build system
	BuildInfo = "dev"

	isVersionCmd     bool
	gracefulShutdown time.Duration
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Member Portal Version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		isVersionCmd = true

		slog.InfoContext(cmd.Context(), BuildInfo)

		return nil
	},
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member-portal",
		Short: "Barangay Connect Member Portal",
		Long:  "Barangay Connect Member Portal, serving the member-facing web pages on top of the Core API.",
	}

	cmd.PersistentFlags().DurationVar(&gracefulShutdown, "graceful-shutdown", 1*time.Second, "graceful shutdown")

	cmd.AddCommand(
		versionCmd,
		server.Cmd(),
		housekeeper.Cmd(),
		migrate.Cmd(),
	)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "failed to start the application", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)

		return err
	}

	if !isVersionCmd {
		_, _ = fmt.Fprintf(os.Stderr, "Graceful shutdown in %s\n", gracefulShutdown)
		time.Sleep(gracefulShutdown)
	}

	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
