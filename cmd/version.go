package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X .../cmd.version=...";
// it stays "dev" otherwise.
var version = "dev"

func getVersionCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "show application version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(gs.stdOut, "dploy "+version)
		},
	}
}
