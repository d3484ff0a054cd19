package cmd

import (
	"github.com/spf13/cobra"

	dploy "github.com/joelvaneenwyk/stow-dploy"
)

func getStowCmd(gs *globalState) *cobra.Command {
	var ignore []string

	c := &cobra.Command{
		Use:   "stow <source>... <dest>",
		Short: "link the contents of one or more source trees into dest",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			resolved, err := resolveArgs(gs, args)
			if err != nil {
				return err
			}
			sources, dest := splitSourcesDest(resolved)
			return dploy.Stow(sources, dest, optionsFrom(gs, ignore))
		},
	}
	c.Flags().StringSliceVar(&ignore, "ignore", nil, "additional ignore glob pattern, repeatable")
	return c
}
