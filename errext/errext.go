// Package errext provides helper types that let errors carry extra
// structured context — a human hint, a process exit code, or (for
// wrapped panics) a formatted stack trace — without the caller having to
// define a new error type for every combination.
package errext

import (
	"errors"
	"fmt"

	"github.com/joelvaneenwyk/stow-dploy/errext/exitcodes"
)

// AbortReason describes why execution was aborted, for errors that want
// to distinguish how they ended without inventing a new error type.
type AbortReason uint8

// Exception is implemented by errors that carry a formatted detail
// string (e.g. a stack trace) that should be printed instead of the
// plain error message.
type Exception interface {
	error
	StackTrace() string
	AbortReason() AbortReason
}

// HasHint is implemented by errors that carry a short user-facing hint.
type HasHint interface {
	error
	Hint() string
}

// HasExitCode is implemented by errors that carry a specific process
// exit code.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

type hintError struct {
	err  error
	hint string
}

func (e hintError) Error() string { return e.err.Error() }
func (e hintError) Unwrap() error { return e.err }
func (e hintError) Hint() string  { return e.hint }

// WithHint wraps err with a hint. If err already carries a hint, the new
// hint is prepended and the old one is parenthesized, so repeated
// wrapping accumulates context instead of discarding it:
// "better hint (test hint)".
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	var existing HasHint
	if errors.As(err, &existing) {
		hint = fmt.Sprintf("%s (%s)", hint, existing.Hint())
	}
	return hintError{err: err, hint: hint}
}

type exitCodeError struct {
	err  error
	code exitcodes.ExitCode
}

func (e exitCodeError) Error() string                { return e.err.Error() }
func (e exitCodeError) Unwrap() error                { return e.err }
func (e exitCodeError) ExitCode() exitcodes.ExitCode { return e.code }

// WithExitCodeIfNone wraps err with code, unless err already carries an
// exit code, in which case the existing code is preserved. This lets
// outer layers set a fallback exit code without clobbering a more
// specific one set deeper in the call stack.
func WithExitCodeIfNone(err error, code exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	var existing HasExitCode
	if errors.As(err, &existing) {
		return err
	}
	return exitCodeError{err: err, code: code}
}
