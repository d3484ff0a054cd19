// Package exitcodes defines the process exit codes dploy can return,
// beyond the generic "0 on success, 1 on unspecified failure" pair.
package exitcodes

// ExitCode is a process exit status in the range a shell can observe.
type ExitCode uint8

// Generic codes, always available regardless of which error kind fired.
const (
	// Success is returned when a command (including a dry-run) completes
	// without collecting any planning errors.
	Success ExitCode = 0
	// GenericError is returned for any error that doesn't carry a more
	// specific exit code of its own.
	GenericError ExitCode = 1
)

// Planning-error codes, one family per spec error taxonomy kind. Grouped
// away from 1 so scripts can distinguish "nothing to do" classes of
// failure (invalid invocation, permission, conflict) from a generic bug.
const (
	InvalidInput ExitCode = 10 + iota
	InsufficientPermissions
	FileConflict
	CrossSourceConflict
)
