package cli

import (
	"github.com/spf13/cobra"

	"github.com/Nadirh/retirement-planning/cmd/common"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			common.PrintVersion(cmd.OutOrStdout(), appName)
		},
	}
}
