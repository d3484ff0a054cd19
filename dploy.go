// Package dploy is the library surface behind the dploy CLI: it deploys
// the contents of one or more source directories into a destination
// directory using symlinks, and can reverse the operation.
package dploy

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/executor"
	"github.com/joelvaneenwyk/stow-dploy/internal/planner"
)

// Options configures a single Stow/Unstow/Restow/Clean/Link call.
type Options struct {
	// Silent suppresses informational per-action output.
	Silent bool
	// DryRun plans and reports actions without applying them.
	DryRun bool
	// IgnorePatterns are unioned with each source's .dploystowignore.
	IgnorePatterns []string
	// Fs is the filesystem to plan and operate against. Nil defaults to
	// afero.NewOsFs(); real stow/unstow/clean/link execution (DryRun
	// false) requires a filesystem that implements afero.Linker, which
	// only a real OS-backed afero.Fs does.
	Fs afero.Fs

	// Out/Err receive per-action descriptions and reported errors.
	// Nil falls back to os.Stdout/os.Stderr.
	Out io.Writer
	Err io.Writer

	// Colorize, if set, transforms a rendered action line before it's
	// printed, given the action's kind label ("link", "unlink",
	// "make directory", "remove directory", "already linked",
	// "already unlinked"). Nil prints plain text, which is what every
	// library caller gets unless it opts in; the CLI wires its own
	// color/--no-color-aware function in here.
	Colorize func(kind, line string) string
}

func (o Options) fs() afero.Fs {
	if o.Fs != nil {
		return o.Fs
	}
	return afero.NewOsFs()
}

func (o Options) exec() *executor.Executor {
	out, errw := o.Out, o.Err
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &executor.Executor{
		Fs:       o.fs(),
		Out:      out,
		Err:      errw,
		DryRun:   o.DryRun,
		Silent:   o.Silent,
		Colorize: o.Colorize,
	}
}

// Stow links sources into dest (spec.md §4.2.2).
func Stow(sources []string, dest string, opts Options) error {
	plan := planner.Stow(opts.fs(), sources, dest, opts.IgnorePatterns)
	return run(opts, plan)
}

// Unstow removes previously stowed links (spec.md §4.2.4).
func Unstow(sources []string, dest string, opts Options) error {
	plan := planner.Unstow(opts.fs(), sources, dest, opts.IgnorePatterns)
	return run(opts, plan)
}

// Restow is the supplemental composition (SPEC_FULL.md §4.4, grounded
// in GNU Stow's own --restow and nvandessel-go4dot's StowManager.Restow):
// unstow immediately followed by stow against the same sources and
// destination. It short-circuits on the first error Unstow reports.
func Restow(sources []string, dest string, opts Options) error {
	if err := Unstow(sources, dest, opts); err != nil {
		return err
	}
	return Stow(sources, dest, opts)
}

// Clean removes broken symlinks in dest that point into one of sources
// (spec.md §4.2.5).
func Clean(sources []string, dest string, opts Options) error {
	plan := planner.Clean(opts.fs(), sources, dest, opts.IgnorePatterns)
	return run(opts, plan)
}

// Link creates a single symlink at dest pointing to source (spec.md
// §4.2.6).
func Link(source, dest string, opts Options) error {
	plan := planner.Link(opts.fs(), source, dest)
	return run(opts, plan)
}

func run(opts Options, plan *planner.Plan) error {
	e := opts.exec()
	if err := e.HandleErrors(plan.Errors); err != nil {
		return err
	}
	return e.Execute(plan.Actions)
}
