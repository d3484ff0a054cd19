package planner

import (
	"fmt"
	"strings"

	"github.com/joelvaneenwyk/stow-dploy/errext"
	"github.com/joelvaneenwyk/stow-dploy/errext/exitcodes"
	"github.com/joelvaneenwyk/stow-dploy/internal/action"
)

// Kind is one of the twelve error classes spec.md §7 names.
type Kind uint8

const (
	SourceIsSameAsDest Kind = iota
	ConflictsWithAnotherSource
	ConflictsWithExistingFile
	ConflictsWithExistingLink
	InsufficientPermissions
	InsufficientPermissionsToSubcmdFrom
	InsufficientPermissionsToSubcmdTo
	NoSuchDirectory
	NoSuchDirectoryToSubcmdInto
	NoSuchFileOrDirectory
	PermissionDenied
	DuplicateSource
)

// preposition is the "from"/"into"/"to" infix spec.md §6's error line
// format uses: "dploy <subcmd>: can not <subcmd> [from|into|to ]'<path>': <reason>".
func (k Kind) preposition() string {
	switch k {
	case InsufficientPermissionsToSubcmdFrom:
		return "from "
	case InsufficientPermissionsToSubcmdTo, NoSuchDirectoryToSubcmdInto:
		return "into "
	default:
		return ""
	}
}

func (k Kind) reason() string {
	switch k {
	case SourceIsSameAsDest:
		return "source is the same as destination"
	case ConflictsWithAnotherSource:
		return "conflicts with another source"
	case ConflictsWithExistingFile:
		return "conflicts with an existing file"
	case ConflictsWithExistingLink:
		return "conflicts with an existing link"
	case InsufficientPermissions:
		return "insufficient permissions"
	case InsufficientPermissionsToSubcmdFrom, InsufficientPermissionsToSubcmdTo:
		return "insufficient permissions"
	case NoSuchDirectory, NoSuchDirectoryToSubcmdInto:
		return "no such directory"
	case NoSuchFileOrDirectory:
		return "no such file or directory"
	case PermissionDenied:
		return "permission denied"
	case DuplicateSource:
		return "duplicate source"
	default:
		return "unknown error"
	}
}

// Error is the single concrete error type backing all twelve kinds
// spec.md §7 lists. It carries the subcommand and path(s) involved so
// its Error() string matches spec.md §6's error-line format exactly.
type Error struct {
	Kind       Kind
	Subcommand action.Subcommand
	Paths      []string
	Reason     string
}

func (e *Error) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = e.Kind.reason()
	}
	path := ""
	if len(e.Paths) > 0 {
		quoted := make([]string, len(e.Paths))
		for i, p := range e.Paths {
			quoted[i] = "'" + p + "'"
		}
		path = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("dploy %s: can not %s %s%s: %s",
		e.Subcommand, e.Subcommand, e.Kind.preposition(), path, reason)
}

// ExitCode implements errext.HasExitCode.
func (e *Error) ExitCode() exitcodes.ExitCode {
	switch e.Kind {
	case DuplicateSource, SourceIsSameAsDest, NoSuchDirectory, NoSuchDirectoryToSubcmdInto, NoSuchFileOrDirectory:
		return exitcodes.InvalidInput
	case InsufficientPermissions, InsufficientPermissionsToSubcmdFrom, InsufficientPermissionsToSubcmdTo, PermissionDenied:
		return exitcodes.InsufficientPermissions
	case ConflictsWithExistingFile, ConflictsWithExistingLink:
		return exitcodes.FileConflict
	case ConflictsWithAnotherSource:
		return exitcodes.CrossSourceConflict
	default:
		return exitcodes.GenericError
	}
}

// hint returns the errext.WithHint text for kinds that warrant one; the
// empty string for kinds that don't, so newErr only wraps with a hint
// where spec.md's permission-related kinds call for it.
func (k Kind) hint() string {
	switch k {
	case InsufficientPermissionsToSubcmdFrom:
		return "check source directory permissions"
	case InsufficientPermissionsToSubcmdTo:
		return "check destination directory permissions"
	case InsufficientPermissions, PermissionDenied:
		return "check filesystem permissions"
	default:
		return ""
	}
}

// newErr builds the Kind's Error, wrapped with errext.WithHint when the
// kind has one.
func newErr(kind Kind, subcmd action.Subcommand, paths ...string) error {
	var err error = &Error{Kind: kind, Subcommand: subcmd, Paths: paths}
	if h := kind.hint(); h != "" {
		err = errext.WithHint(err, h)
	}
	return err
}
