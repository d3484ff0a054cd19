package planner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
	"github.com/joelvaneenwyk/stow-dploy/internal/ignore"
)

// entryNames lists the base names of dir's children, sorted, so walks
// are deterministic regardless of the underlying afero.Fs's readdir
// order.
func entryNames(fs afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, fi := range infos {
		names[i] = fi.Name()
	}
	sort.Strings(names)
	return names, nil
}

// lookup is the per-entry filesystem state the stow/unstow walks need:
// whether the destination entry exists, and if so, whether it's a
// symlink and (when it is) its resolved-absolute target.
type lookup struct {
	destExists  bool
	destIsDir   bool
	destIsLink  bool
	linkTarget  string // absolute, only valid when destIsLink
	sameAsEntry bool   // same_file(destEntry, srcEntry)
}

func inspect(fs afero.Fs, destEntry, srcEntry string) (lookup, error) {
	var lk lookup

	fi, err := fsutil.Lstat(fs, destEntry)
	if err != nil {
		if os.IsNotExist(err) {
			return lk, nil
		}
		return lk, err
	}
	lk.destExists = true
	lk.destIsDir = fi.IsDir()
	lk.destIsLink = fi.Mode()&os.ModeSymlink != 0

	if lk.destIsLink {
		target, err := fsutil.ReadLink(fs, destEntry, true)
		if err != nil {
			return lk, err
		}
		lk.linkTarget = target
	}

	same, err := fsutil.SameFile(fs, destEntry, srcEntry)
	if err != nil {
		// A dangling symlink (or a target the fs can no longer stat)
		// is simply "not the same file"; same_file is a convergence
		// check, not a hard dependency on the link resolving.
		lk.sameAsEntry = false
	} else {
		lk.sameAsEntry = same
	}

	return lk, nil
}

// newMatcher builds the per-source ignore matcher spec.md §4.3 requires,
// unioning callerPatterns with root/.dploystowignore.
func newMatcher(fs afero.Fs, root string, callerPatterns []string) (*ignore.Matcher, error) {
	return ignore.New(fs, root, callerPatterns)
}

func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
