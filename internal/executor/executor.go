// Package executor implements spec.md §4.4: given a plan's ordered
// planning errors it reports them (HandleErrors), and given its ordered
// actions it prints and/or applies them (Execute). The Executor keeps
// neither list itself; dploy's run calls Execute only when HandleErrors
// returned nil.
package executor

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
)

// Executor runs (or, in dry-run mode, prints) a planner.Plan's actions.
type Executor struct {
	Fs     afero.Fs
	Out    io.Writer
	Err    io.Writer
	DryRun bool
	Silent bool

	// Colorize, if set, transforms an action's rendered Describe() line
	// before it's printed, given the action's Kind label
	// (action.Kind.String(), e.g. "link", "unlink"). It lets a caller
	// (the CLI layer) colorize output without action.Action.Describe()
	// itself ever producing anything but plain text. Nil means no
	// coloring.
	Colorize func(kind, line string) string
}

// HandleErrors writes every error in errs to Err (unless silent) and
// returns the first one, matching spec.md §4.4's accumulate-then-report
// policy. It returns nil when errs is empty.
func (e *Executor) HandleErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if !e.Silent {
		for _, err := range errs {
			fmt.Fprintln(e.Err, err.Error())
		}
	}
	return errs[0]
}

// Execute iterates actions in order. Unless silent, it writes one
// description line per action to Out; unless DryRun, it applies each
// action's effect. Execution stops at the first failing action — no
// rollback is attempted (spec.md §4.4/§7: best-effort, no mid-execute
// recovery).
func (e *Executor) Execute(actions []action.Action) error {
	for _, a := range actions {
		if !e.Silent {
			line := a.Describe()
			if e.Colorize != nil {
				line = e.Colorize(a.Kind.String(), line)
			}
			fmt.Fprintln(e.Out, line)
		}
		if e.DryRun {
			continue
		}
		if err := a.Apply(e.Fs); err != nil {
			return err
		}
	}
	return nil
}
