package server

import (
	"github.com/spf13/cobra"

	"github.com/barangay-connect/member-portal/internal/business"
	"github.com/barangay-connect/member-portal/internal/cmdutils"
)

func Cmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"server",
		"Member Portal web server",
		"Member Portal web server hosts the member-facing pages and owns the browser sessions.",
		cmdutils.RunAsService,
		business.Main,
	)
}
