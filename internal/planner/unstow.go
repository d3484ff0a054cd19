package planner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
	"github.com/joelvaneenwyk/stow-dploy/internal/fsutil"
	"github.com/joelvaneenwyk/stow-dploy/internal/ignore"
)

// Unstow implements spec.md §4.2.4: mirrors Stow's walk, emitting
// UnLink for every destination entry that's a symlink into the source
// being unstowed, then runs the folding post-pass that collapses a
// destination directory back into a single symlink once only one
// source's contribution remains in it.
func Unstow(fs afero.Fs, sources []string, dest string, ignorePatterns []string) *Plan {
	res := validateCommon(fs, action.Unstow, sources, dest, validationConfig{
		requireDestReadable: true, requireDestWritable: true, requireDestExecutable: true,
	})
	if len(res.errs) > 0 {
		return &Plan{Errors: res.errs}
	}

	b := newBuilder(fs, action.Unstow)
	for _, source := range res.sources {
		matcher, err := newMatcher(fs, source, ignorePatterns)
		if err != nil {
			b.addError(err)
			continue
		}
		unstowWalk(b, fs, matcher, source, source, res.dest)
	}

	foldUnstow(b, fs)
	return b.plan()
}

func unstowWalk(b *builder, fs afero.Fs, matcher *ignore.Matcher, srcRoot, srcDir, destDir string) {
	names, err := entryNames(fs, srcDir)
	if err != nil {
		b.addError(err)
		return
	}

	for _, name := range names {
		srcEntry := filepath.Join(srcDir, name)
		destEntry := filepath.Join(destDir, name)

		if matcher.ShouldIgnore(relPath(srcRoot, srcEntry)) {
			continue
		}

		lk, err := inspect(fs, destEntry, srcEntry)
		if err != nil {
			b.addError(err)
			continue
		}

		if !lk.destExists {
			b.addAlreadyUnlinked(destEntry, srcEntry, destDir)
			continue
		}

		if lk.destIsLink {
			if !lk.sameAsEntry {
				b.errf(ConflictsWithExistingLink, srcEntry, destEntry)
				continue
			}
			_, writable, executable, perr := fsutil.EffectiveMode(destDir)
			if perr != nil || !writable || !executable {
				b.errf(InsufficientPermissionsToSubcmdTo, destDir)
				continue
			}
			b.addUnlink(destEntry, srcEntry, destDir)
			continue
		}

		if lk.destIsDir {
			srcFi, lerr := fsutil.Lstat(fs, srcEntry)
			if lerr == nil && srcFi.IsDir() && srcFi.Mode()&os.ModeSymlink == 0 {
				unstowWalk(b, fs, matcher, srcRoot, srcEntry, destEntry)
				continue
			}
		}

		b.addAlreadyUnlinked(destEntry, srcEntry, destDir)
	}
}

// foldUnstow implements spec.md §4.2.4's folding post-pass: for every
// directory that is the parent of one or more planned UnLink actions,
// check whether the directory's surviving children (after those
// unlinks are simulated) are exactly the full, unchanged contents of
// one other source directory. If so, that directory's planned unlinks are
// regrouped, at the position of the first one, into tryFold's collapse
// sequence, which ends in RemoveDirectory + SymbolicLink.
func foldUnstow(b *builder, fs afero.Fs) {
	byParent := make(map[string][]int)
	for i, act := range b.actions {
		if act.Kind == action.UnLink {
			byParent[filepath.Dir(act.Target)] = append(byParent[filepath.Dir(act.Target)], i)
		}
	}

	parents := make([]string, 0, len(byParent))
	for d := range byParent {
		parents = append(parents, d)
	}
	sort.Strings(parents)

	remove := make(map[int]bool)
	insertAt := make(map[int][]action.Action)

	for _, dir := range parents {
		idxs := byParent[dir]
		seq, ok := tryFold(fs, dir, idxs, b)
		if !ok {
			continue
		}
		minIdx := idxs[0]
		for _, i := range idxs {
			remove[i] = true
			if i < minIdx {
				minIdx = i
			}
		}
		insertAt[minIdx] = seq
	}

	if len(remove) == 0 {
		return
	}

	actions := make([]action.Action, 0, len(b.actions))
	linkSource := make([]string, 0, len(b.linkSource))
	for i, act := range b.actions {
		if seq, ok := insertAt[i]; ok {
			for _, a := range seq {
				actions = append(actions, a)
				linkSource = append(linkSource, "")
			}
		}
		if remove[i] {
			continue
		}
		actions = append(actions, act)
		linkSource = append(linkSource, b.linkSource[i])
	}
	b.actions = actions
	b.linkSource = linkSource
}

// tryFold reports whether dir qualifies for folding and, if so, returns
// the replacement action sequence (the already-planned unlinks, unlinks
// of every residual sibling, RemoveDirectory, SymbolicLink into the
// single surviving source).
func tryFold(fs afero.Fs, dir string, unlinkIdxs []int, b *builder) ([]action.Action, bool) {
	unlinking := make(map[string]bool, len(unlinkIdxs))
	for _, i := range unlinkIdxs {
		unlinking[filepath.Base(b.actions[i].Target)] = true
	}

	allNames, err := entryNames(fs, dir)
	if err != nil {
		return nil, false
	}

	var residual []string
	for _, n := range allNames {
		if !unlinking[n] {
			residual = append(residual, n)
		}
	}
	if len(residual) == 0 {
		return nil, false
	}

	first := filepath.Join(dir, residual[0])
	fi, err := fsutil.Lstat(fs, first)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return nil, false
	}
	target, err := fsutil.ReadLink(fs, first, true)
	if err != nil {
		return nil, false
	}
	source := filepath.Dir(target)
	if !isDir(fs, source) {
		return nil, false
	}

	for _, n := range residual {
		entry := filepath.Join(dir, n)
		efi, err := fsutil.Lstat(fs, entry)
		if err != nil || efi.Mode()&os.ModeSymlink == 0 {
			return nil, false
		}
		same, err := fsutil.SameFile(fs, entry, filepath.Join(source, n))
		if err != nil || !same {
			return nil, false
		}
	}

	sourceNames, err := entryNames(fs, source)
	if err != nil || len(sourceNames) != len(residual) {
		return nil, false
	}
	sort.Strings(residual)
	for i := range sourceNames {
		if sourceNames[i] != residual[i] {
			return nil, false
		}
	}

	seq := make([]action.Action, 0, len(residual)+len(unlinkIdxs)+2)
	for _, i := range unlinkIdxs {
		seq = append(seq, b.actions[i])
	}
	for _, n := range residual {
		entry := filepath.Join(dir, n)
		seq = append(seq, action.Action{
			Kind: action.UnLink, Subcommand: b.subcommand,
			Target: entry, SourceRel: fsutil.Relative(dir, filepath.Join(source, n)),
		})
	}
	seq = append(seq, action.Action{Kind: action.RemoveDirectory, Subcommand: b.subcommand, Target: dir})
	seq = append(seq, action.Action{
		Kind: action.SymbolicLink, Subcommand: b.subcommand,
		Dest: dir, SourceRel: fsutil.Relative(filepath.Dir(dir), source),
	})
	return seq, true
}
