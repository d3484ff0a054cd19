// Package action models the planned filesystem effects spec.md §2 item 3
// describes, as a closed tagged union rather than a class hierarchy: one
// Kind enum and one Action struct whose populated fields depend on Kind.
package action

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
)

// Kind identifies the variant of filesystem effect an Action represents.
type Kind uint8

const (
	// SymbolicLink creates a symlink at Dest with literal target SourceRel.
	SymbolicLink Kind = iota
	// UnLink removes the symlink at Target.
	UnLink
	// MakeDirectory creates an empty directory at Target.
	MakeDirectory
	// RemoveDirectory removes the (empty) directory at Target.
	RemoveDirectory
	// AlreadyLinked reports that Dest already links to SourceRel; inert.
	AlreadyLinked
	// AlreadyUnlinked reports that Dest holds no link to SourceRel to
	// remove (it is absent, or is not a link planted from the source);
	// inert.
	AlreadyUnlinked
)

func (k Kind) String() string {
	switch k {
	case SymbolicLink:
		return "link"
	case UnLink:
		return "unlink"
	case MakeDirectory:
		return "make directory"
	case RemoveDirectory:
		return "remove directory"
	case AlreadyLinked:
		return "already linked"
	case AlreadyUnlinked:
		return "already unlinked"
	default:
		return "unknown"
	}
}

// Subcommand tags an Action with the top-level operation that produced
// it, purely for message formatting (spec.md §6's output format).
type Subcommand uint8

const (
	Stow Subcommand = iota
	Unstow
	Clean
	Link
)

func (s Subcommand) String() string {
	switch s {
	case Stow:
		return "stow"
	case Unstow:
		return "unstow"
	case Clean:
		return "clean"
	case Link:
		return "link"
	default:
		return "unknown"
	}
}

// Action is a single planned filesystem effect. Which fields are
// populated depends on Kind:
//   - SymbolicLink, AlreadyLinked, AlreadyUnlinked: Dest, SourceRel
//   - UnLink: Target, SourceRel (the link's recorded literal target,
//     used only for messaging)
//   - MakeDirectory, RemoveDirectory: Target
type Action struct {
	Kind       Kind
	Subcommand Subcommand

	Dest      string
	Target    string
	SourceRel string
}

// Describe renders the action the way spec.md §6 specifies, one line
// per action, prefixed with "dploy <subcmd>: ".
func (a Action) Describe() string {
	prefix := fmt.Sprintf("dploy %s: ", a.Subcommand)
	switch a.Kind {
	case SymbolicLink:
		return fmt.Sprintf("%slink %s => %s", prefix, a.Dest, a.SourceRel)
	case UnLink:
		return fmt.Sprintf("%sunlink %s => %s", prefix, a.Target, a.SourceRel)
	case MakeDirectory:
		return fmt.Sprintf("%smake directory %s", prefix, a.Target)
	case RemoveDirectory:
		return fmt.Sprintf("%sremove directory %s", prefix, a.Target)
	case AlreadyLinked:
		return fmt.Sprintf("%salready linked %s => %s", prefix, a.Dest, a.SourceRel)
	case AlreadyUnlinked:
		return fmt.Sprintf("%salready unlinked %s => %s", prefix, a.Dest, a.SourceRel)
	default:
		return fmt.Sprintf("%sunknown action", prefix)
	}
}

// Apply performs the action's effect against fs. AlreadyLinked and
// AlreadyUnlinked are reporting-only and never touch the filesystem.
func (a Action) Apply(fs afero.Fs) error {
	switch a.Kind {
	case SymbolicLink:
		return fsutil.Symlink(fs, a.SourceRel, a.Dest)
	case UnLink:
		isLink, err := fsutil.IsSymlink(fs, a.Target)
		if err != nil {
			return err
		}
		if !isLink {
			return fmt.Errorf("action: UnLink target %q is not a symlink", a.Target)
		}
		return fs.Remove(a.Target)
	case MakeDirectory:
		return fs.Mkdir(a.Target, 0o755)
	case RemoveDirectory:
		return fs.Remove(a.Target)
	case AlreadyLinked, AlreadyUnlinked:
		return nil
	default:
		return fmt.Errorf("action: unknown kind %d", a.Kind)
	}
}
