package planner

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
)

// Link implements spec.md §4.2.6: a single-shot symlink from one source
// to one destination path (not a destination directory).
func Link(fs afero.Fs, source, dest string) *Plan {
	b := newBuilder(fs, action.Link)

	normSource, err := fsutil.Normalize(source)
	if err != nil {
		b.errf(NoSuchFileOrDirectory, source)
		return b.plan()
	}
	if ok, _ := exists(fs, normSource); !ok {
		b.errf(NoSuchFileOrDirectory, normSource)
		return b.plan()
	}

	normDest, err := fsutil.Normalize(dest)
	if err != nil {
		b.errf(NoSuchDirectoryToSubcmdInto, dest)
		return b.plan()
	}

	parent := filepath.Dir(normDest)
	if !isDir(fs, parent) {
		b.errf(NoSuchDirectoryToSubcmdInto, parent)
		return b.plan()
	}
	_, writable, _, perr := fsutil.EffectiveMode(parent)
	if perr != nil || !writable {
		b.errf(InsufficientPermissionsToSubcmdTo, parent)
		return b.plan()
	}

	lk, err := inspect(fs, normDest, normSource)
	if err != nil {
		b.addError(err)
		return b.plan()
	}

	switch {
	case !lk.destExists:
		b.addLink(normDest, normSource, parent)
	case lk.destIsLink && lk.sameAsEntry:
		b.addAlreadyLinked(normDest, normSource, parent)
	case lk.destIsLink:
		b.errf(ConflictsWithExistingLink, normSource, normDest)
	default:
		b.errf(ConflictsWithExistingFile, normSource, normDest)
	}

	return b.plan()
}
