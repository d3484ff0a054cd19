// Package planner implements the per-subcommand planners spec.md §4.2
// describes: stow, unstow, clean and link, each a tree walker that
// validates inputs, emits actions and errors, and (for stow/unstow) runs
// a folding/unfolding post-pass before handing the result to the
// executor.
package planner

import (
	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
)

// Plan is the ordered sequence of actions plus the ordered sequence of
// errors a planner produced (spec.md §3, "Plan"). If Errors is
// non-empty, the caller must not execute Actions.
type Plan struct {
	Actions []action.Action
	Errors  []error
}

// builder accumulates actions (in emission order) and errors during a
// single planner walk. linkSource[i] holds the absolute source path
// backing actions[i] when actions[i].Kind is action.SymbolicLink; it is
// kept out of action.Action itself (which only carries the relocatable
// relative target) because it's only needed to name colliding sources
// in a ConflictsWithAnotherSource error.
type builder struct {
	fs         afero.Fs
	subcommand action.Subcommand

	actions    []action.Action
	linkSource []string
	errors     []error

	// plannedDirs holds every path this builder has already emitted a
	// MakeDirectory action for. A directory in this set does not exist
	// on disk yet, so its writability can't be probed directly; it was
	// only scheduled after its own parent's writability check passed,
	// so it's treated as writable once created (see stow.go's
	// destDirWritable).
	plannedDirs map[string]bool
}

func newBuilder(fs afero.Fs, subcmd action.Subcommand) *builder {
	return &builder{fs: fs, subcommand: subcmd, plannedDirs: make(map[string]bool)}
}

func (b *builder) addLink(dest, absSource, destParent string) {
	b.actions = append(b.actions, action.Action{
		Kind: action.SymbolicLink, Subcommand: b.subcommand,
		Dest: dest, SourceRel: fsutil.Relative(destParent, absSource),
	})
	b.linkSource = append(b.linkSource, absSource)
}

func (b *builder) addAlreadyLinked(dest, absSource, destParent string) {
	b.appendPlain(action.Action{
		Kind: action.AlreadyLinked, Subcommand: b.subcommand,
		Dest: dest, SourceRel: fsutil.Relative(destParent, absSource),
	})
}

func (b *builder) addAlreadyUnlinked(dest, absSource, destParent string) {
	b.appendPlain(action.Action{
		Kind: action.AlreadyUnlinked, Subcommand: b.subcommand,
		Dest: dest, SourceRel: fsutil.Relative(destParent, absSource),
	})
}

func (b *builder) addUnlink(target, absSource, targetParent string) {
	b.appendPlain(action.Action{
		Kind: action.UnLink, Subcommand: b.subcommand,
		Target: target, SourceRel: fsutil.Relative(targetParent, absSource),
	})
}

func (b *builder) addMakeDirectory(target string) {
	b.appendPlain(action.Action{Kind: action.MakeDirectory, Subcommand: b.subcommand, Target: target})
	b.plannedDirs[target] = true
}

func (b *builder) addRemoveDirectory(target string) {
	b.appendPlain(action.Action{Kind: action.RemoveDirectory, Subcommand: b.subcommand, Target: target})
}

// appendPlain appends an action with no associated absolute source path
// (everything but SymbolicLink), keeping actions/linkSource aligned.
func (b *builder) appendPlain(a action.Action) {
	b.actions = append(b.actions, a)
	b.linkSource = append(b.linkSource, "")
}

func (b *builder) addError(err error) {
	b.errors = append(b.errors, err)
}

// errf appends a planner Error of the given kind, wrapped with a hint
// when the kind warrants one.
func (b *builder) errf(kind Kind, paths ...string) {
	b.addError(newErr(kind, b.subcommand, paths...))
}

func (b *builder) plan() *Plan {
	return &Plan{Actions: b.actions, Errors: b.errors}
}
