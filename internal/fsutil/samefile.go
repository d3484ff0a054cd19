package fsutil

import (
	"os"

	"github.com/spf13/afero"
)

// SameFile reports whether a and b resolve, following symlinks, to the
// same underlying file. It is used to recognize "already linked" states:
// a destination symlink whose target resolves to the same file as the
// source entry.
//
// SameFile relies on os.SameFile's device/inode comparison, which only
// has a meaningful answer for os.FileInfo values produced by the real
// operating system (afero.NewOsFs()). Against a synthetic afero.Fs such
// as afero.NewMemMapFs(), which has no inode concept, it conservatively
// reports false rather than guessing — callers that need "already
// linked" detection in tests should use a real filesystem rooted at
// t.TempDir().
func SameFile(fs afero.Fs, a, b string) (bool, error) {
	infoA, err := fs.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := fs.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(infoA, infoB), nil
}
