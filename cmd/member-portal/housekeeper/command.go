package housekeeper

import (
	"github.com/spf13/cobra"

	"github.com/barangay-connect/member-portal/internal/business"
	"github.com/barangay-connect/member-portal/internal/cmdutils"
)

func Cmd() *cobra.Command {
	return cmdutils.CobraCommand(
		"housekeeper",
		"Member Portal housekeeping job",
		"Member Portal housekeeping job removes idle sessions and expired sign-in ticket claims.",
		cmdutils.RunAsService,
		business.HousekeeperMain,
	)
}
