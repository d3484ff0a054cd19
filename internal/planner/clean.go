package planner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
)

// Clean implements spec.md §4.2.5: walks the destination tree (not the
// sources) and unlinks every symlink whose literal target resolves into
// one of the given source roots and no longer exists. Non-symlinks and
// links pointing anywhere else are left untouched.
func Clean(fs afero.Fs, sources []string, dest string, ignorePatterns []string) *Plan {
	res := validateCommon(fs, action.Clean, sources, dest, validationConfig{
		requireDestReadable: true, requireDestWritable: true, requireDestExecutable: true,
	})
	if len(res.errs) > 0 {
		return &Plan{Errors: res.errs}
	}
	_ = ignorePatterns // clean walks the destination, not a source; spec.md §4.2.5 names no ignore step

	b := newBuilder(fs, action.Clean)
	cleanWalk(b, fs, res.sources, res.dest)
	return b.plan()
}

func cleanWalk(b *builder, fs afero.Fs, sources []string, dir string) {
	names, err := entryNames(fs, dir)
	if err != nil {
		b.addError(err)
		return
	}

	for _, name := range names {
		entry := filepath.Join(dir, name)
		fi, err := fsutil.Lstat(fs, entry)
		if err != nil {
			b.addError(err)
			continue
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := fsutil.ReadLink(fs, entry, true)
			if err != nil {
				b.addError(err)
				continue
			}
			if !withinAnySource(target, sources) {
				continue
			}
			ok, err := exists(fs, target)
			if err != nil {
				b.addError(err)
				continue
			}
			if !ok {
				b.addUnlink(entry, target, dir)
			}
			continue
		}

		if fi.IsDir() {
			cleanWalk(b, fs, sources, entry)
		}
	}
}

func withinAnySource(target string, sources []string) bool {
	for _, s := range sources {
		if target == s || strings.HasPrefix(target, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
