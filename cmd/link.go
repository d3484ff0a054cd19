package cmd

import (
	"github.com/spf13/cobra"

	dploy "github.com/joelvaneenwyk/stow-dploy"
)

func getLinkCmd(gs *globalState) *cobra.Command {
	c := &cobra.Command{
		Use:   "link <source> <dest>",
		Short: "create a single symlink at dest pointing to source",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			resolved, err := resolveArgs(gs, args)
			if err != nil {
				return err
			}
			return dploy.Link(resolved[0], resolved[1], optionsFrom(gs, nil))
		},
	}
	return c
}
