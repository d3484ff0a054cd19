package fsutil

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// linker is the capability afero.OsFs (and any other afero.Fs that
// wants to support symlinks) implements. It mirrors afero.Linker, kept
// as a local, minimal copy so fsutil doesn't have to import afero's
// internal symlink error sentinels.
type linker interface {
	SymlinkIfPossible(oldname, newname string) error
	ReadlinkIfPossible(name string) (string, error)
}

// ErrNoSymlinkSupport is returned when the supplied afero.Fs doesn't
// implement symlink operations. dploy only ever runs against
// afero.NewOsFs() for real stow/unstow/clean/link operations; this is a
// configuration error, not a runtime condition the planner should try to
// recover from.
var ErrNoSymlinkSupport = fmt.Errorf("filesystem does not support symbolic links")

// Symlink creates a symbolic link named newname pointing at oldname.
func Symlink(fs afero.Fs, oldname, newname string) error {
	l, ok := fs.(linker)
	if !ok {
		return ErrNoSymlinkSupport
	}
	return l.SymlinkIfPossible(oldname, newname)
}

// ReadLink returns the literal target stored in the symlink at path,
// without resolving it. If absolute is true and the stored target is
// relative, it is joined to the link's parent directory (filepath.Join,
// which also lexically cleans the result); symlinks along the target are
// never resolved.
func ReadLink(fs afero.Fs, path string, absolute bool) (string, error) {
	l, ok := fs.(linker)
	if !ok {
		return "", ErrNoSymlinkSupport
	}
	target, err := l.ReadlinkIfPossible(path)
	if err != nil {
		return "", err
	}
	if absolute && !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return target, nil
}
