package cmd

import (
	"path/filepath"

	dploy "github.com/joelvaneenwyk/stow-dploy"
)

// resolveArgs joins any relative positional path argument against
// gs.getwd(), the way k6's globalState keeps every OS-external lookup
// behind the struct instead of letting subcommands call os.Getwd
// directly.
func resolveArgs(gs *globalState, args []string) ([]string, error) {
	wd, err := gs.getwd()
	if err != nil {
		return nil, err
	}
	resolved := make([]string, len(args))
	for i, a := range args {
		if filepath.IsAbs(a) {
			resolved[i] = a
			continue
		}
		resolved[i] = filepath.Join(wd, a)
	}
	return resolved, nil
}

// splitSourcesDest treats the final positional argument as dest and
// everything before it as sources, matching GNU Stow's own argv shape.
func splitSourcesDest(args []string) (sources []string, dest string) {
	return args[:len(args)-1], args[len(args)-1]
}

func optionsFrom(gs *globalState, ignore []string) dploy.Options {
	return dploy.Options{
		Silent:         gs.flags.silent,
		DryRun:         gs.flags.dryRun,
		IgnorePatterns: ignore,
		Fs:             gs.fs,
		Out:            gs.stdOut,
		Err:            gs.stdErr,
		Colorize:       colorizeAction(gs.flags.noColor),
	}
}
