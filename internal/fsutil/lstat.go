package fsutil

import (
	"os"

	"github.com/spf13/afero"
)

// lstater mirrors afero.Lstater, kept local for the same reason as
// linker in readlink.go.
type lstater interface {
	LstatIfPossible(name string) (os.FileInfo, bool, error)
}

// Lstat stats path without following a trailing symlink. If fs doesn't
// support lstat, it falls back to Stat, which does follow a trailing
// symlink; the result does not say which of the two was used.
func Lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

// IsSymlink reports whether path exists and is a symlink, without
// resolving it.
func IsSymlink(fs afero.Fs, path string) (bool, error) {
	info, err := Lstat(fs, path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}
