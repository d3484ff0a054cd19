//go:build !windows

package fsutil

import "golang.org/x/sys/unix"

// EffectiveMode probes whether the current user can read, write, and
// execute path, the way spec.md §4.1 requires. On POSIX this reduces
// directly to access()-class checks via golang.org/x/sys/unix.
func EffectiveMode(path string) (readable, writable, executable bool, err error) {
	readable = unix.Access(path, unix.R_OK) == nil
	writable = unix.Access(path, unix.W_OK) == nil
	executable = unix.Access(path, unix.X_OK) == nil
	return readable, writable, executable, nil
}
