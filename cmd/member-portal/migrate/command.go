package migrate

import (
	"github.com/spf13/cobra"

	"github.com/barangay-connect/member-portal/internal/business"
	"github.com/barangay-connect/member-portal/internal/cmdutils"
)

func Cmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Member Portal database migrations",
		"Member Portal database migrations for the postgres storage backend.",
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
