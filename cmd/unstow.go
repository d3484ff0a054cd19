package cmd

import (
	"github.com/spf13/cobra"

	dploy "github.com/joelvaneenwyk/stow-dploy"
)

func getUnstowCmd(gs *globalState) *cobra.Command {
	var ignore []string

	c := &cobra.Command{
		Use:   "unstow <source>... <dest>",
		Short: "remove previously stowed links from dest",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			resolved, err := resolveArgs(gs, args)
			if err != nil {
				return err
			}
			sources, dest := splitSourcesDest(resolved)
			return dploy.Unstow(sources, dest, optionsFrom(gs, ignore))
		},
	}
	c.Flags().StringSliceVar(&ignore, "ignore", nil, "additional ignore glob pattern, repeatable")
	return c
}
