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

// sourceContribution is one source directory contributing entries at
// the destination directory currently being planned. Tracking
// contributions from every source together at each level (rather than
// walking one source to completion before starting the next) is what
// lets Stow decide "one source, link directly" vs "several sources,
// build a real directory and recurse" without ever having to query a
// symlink it only planned to create earlier in the same invocation.
type sourceContribution struct {
	idx int // index into sourceRoots/matchers, stable across recursion
	dir string
}

// Stow implements spec.md §4.2.2/§4.2.3: at every destination
// directory, every non-ignored source entry with the same name is
// considered together, so unfolding and cross-source merging are
// decided directly instead of needing a separate conflict post-pass to
// catch what the walk couldn't see yet.
func Stow(fs afero.Fs, sources []string, dest string, ignorePatterns []string) *Plan {
	res := validateCommon(fs, action.Stow, sources, dest, validationConfig{requireDestWritable: true})
	if len(res.errs) > 0 {
		return &Plan{Errors: res.errs}
	}

	b := newBuilder(fs, action.Stow)
	matchers := make([]*ignore.Matcher, len(res.sources))
	contribs := make([]sourceContribution, 0, len(res.sources))
	for i, source := range res.sources {
		m, err := newMatcher(fs, source, ignorePatterns)
		if err != nil {
			b.addError(err)
			continue
		}
		matchers[i] = m
		contribs = append(contribs, sourceContribution{idx: i, dir: source})
	}

	stowLevel(b, fs, res.sources, matchers, contribs, res.dest)
	foldCrossSourceConflicts(b)
	return b.plan()
}

// stowLevel groups contribs by entry name and plans each name's entry.
func stowLevel(b *builder, fs afero.Fs, sourceRoots []string, matchers []*ignore.Matcher, contribs []sourceContribution, destDir string) {
	byName := make(map[string][]sourceContribution)
	for _, c := range contribs {
		names, err := entryNames(fs, c.dir)
		if err != nil {
			b.addError(err)
			continue
		}
		for _, name := range names {
			entryPath := filepath.Join(c.dir, name)
			if matchers[c.idx].ShouldIgnore(relPath(sourceRoots[c.idx], entryPath)) {
				continue
			}
			byName[name] = append(byName[name], c)
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stowEntry(b, fs, sourceRoots, matchers, byName[name], name, destDir)
	}
}

// stowEntry plans the destination entry destDir/name given every source
// that contributes an entry by that name.
func stowEntry(b *builder, fs afero.Fs, sourceRoots []string, matchers []*ignore.Matcher, group []sourceContribution, name, destDir string) {
	destEntry := filepath.Join(destDir, name)

	var usable []sourceContribution
	for _, c := range group {
		entryPath := filepath.Join(c.dir, name)
		readable, _, _, err := fsutil.EffectiveMode(entryPath)
		if err != nil || !readable {
			b.errf(InsufficientPermissionsToSubcmdFrom, entryPath)
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return
	}
	group = usable

	fi, err := fsutil.Lstat(fs, destEntry)
	if err != nil && !os.IsNotExist(err) {
		b.addError(err)
		return
	}
	destExists := err == nil

	if !destExists {
		stowEntryAbsent(b, fs, sourceRoots, matchers, group, name, destDir, destEntry)
		return
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		stowEntryOverLink(b, fs, sourceRoots, matchers, group, name, destDir, destEntry)
		return
	}

	if fi.IsDir() {
		stowEntryOverDir(b, fs, sourceRoots, matchers, group, name, destEntry)
		return
	}

	stowEntryConflict(b, group, name, destEntry)
}

func stowEntryAbsent(b *builder, fs afero.Fs, sourceRoots []string, matchers []*ignore.Matcher, group []sourceContribution, name, destDir, destEntry string) {
	if len(group) == 1 {
		srcEntry := filepath.Join(group[0].dir, name)
		if !destDirWritable(b, destDir) {
			b.errf(InsufficientPermissionsToSubcmdTo, destDir)
			return
		}
		b.addLink(destEntry, srcEntry, destDir)
		return
	}

	if !allDirectories(fs, group, name) {
		stowEntryConflict(b, group, name, destEntry)
		return
	}
	if !destDirWritable(b, destDir) {
		b.errf(InsufficientPermissionsToSubcmdTo, destDir)
		return
	}
	b.addMakeDirectory(destEntry)
	stowLevel(b, fs, sourceRoots, matchers, descend(group, name), destEntry)
}

// destDirWritable reports whether destDir can be written to. destDir
// either already exists on disk (the common case, probed directly via
// fsutil.EffectiveMode) or is itself a MakeDirectory target this same
// plan already scheduled — in which case it doesn't exist yet, so
// EffectiveMode would see ENOENT and report not-writable even though
// the directory's own creation already passed this same check against
// its parent. Treat the latter as writable; its eventual permissions
// come from action.MakeDirectory's own mode, not from anything probed
// here.
func destDirWritable(b *builder, destDir string) bool {
	if b.plannedDirs[destDir] {
		return true
	}
	_, writable, _, err := fsutil.EffectiveMode(destDir)
	return err == nil && writable
}

func stowEntryOverLink(b *builder, fs afero.Fs, sourceRoots []string, matchers []*ignore.Matcher, group []sourceContribution, name, destDir, destEntry string) {
	linkTarget, err := fsutil.ReadLink(fs, destEntry, true)
	if err != nil {
		b.addError(err)
		return
	}

	if len(group) == 1 {
		srcEntry := filepath.Join(group[0].dir, name)
		same, serr := fsutil.SameFile(fs, destEntry, srcEntry)
		if serr == nil && same {
			b.addAlreadyLinked(destEntry, srcEntry, destDir)
			return
		}
		if isDirEntry(fs, srcEntry) && isDir(fs, linkTarget) {
			unfold(b, fs, destEntry, linkTarget, destDir)
			stowLevel(b, fs, sourceRoots, matchers, []sourceContribution{{idx: group[0].idx, dir: srcEntry}}, destEntry)
			return
		}
		b.errf(ConflictsWithExistingLink, srcEntry, destEntry)
		return
	}

	if !allDirectories(fs, group, name) || !isDir(fs, linkTarget) {
		stowEntryConflict(b, group, name, destEntry)
		return
	}
	unfold(b, fs, destEntry, linkTarget, destDir)
	stowLevel(b, fs, sourceRoots, matchers, descend(group, name), destEntry)
}

func stowEntryOverDir(b *builder, fs afero.Fs, sourceRoots []string, matchers []*ignore.Matcher, group []sourceContribution, name, destEntry string) {
	var dirContribs []sourceContribution
	for _, c := range group {
		entryPath := filepath.Join(c.dir, name)
		if isDirEntry(fs, entryPath) {
			dirContribs = append(dirContribs, sourceContribution{idx: c.idx, dir: entryPath})
		} else {
			b.errf(ConflictsWithExistingFile, entryPath, destEntry)
		}
	}
	if len(dirContribs) > 0 {
		stowLevel(b, fs, sourceRoots, matchers, dirContribs, destEntry)
	}
}

func stowEntryConflict(b *builder, group []sourceContribution, name, destEntry string) {
	if len(group) == 1 {
		b.errf(ConflictsWithExistingFile, filepath.Join(group[0].dir, name), destEntry)
		return
	}
	paths := make([]string, len(group))
	for i, c := range group {
		paths[i] = filepath.Join(c.dir, name)
	}
	sort.Strings(paths)
	b.errf(ConflictsWithAnotherSource, paths...)
}

func allDirectories(fs afero.Fs, group []sourceContribution, name string) bool {
	for _, c := range group {
		if !isDirEntry(fs, filepath.Join(c.dir, name)) {
			return false
		}
	}
	return true
}

func isDirEntry(fs afero.Fs, p string) bool {
	fi, err := fsutil.Lstat(fs, p)
	return err == nil && fi.IsDir() && fi.Mode()&os.ModeSymlink == 0
}

func descend(group []sourceContribution, name string) []sourceContribution {
	out := make([]sourceContribution, len(group))
	for i, c := range group {
		out[i] = sourceContribution{idx: c.idx, dir: filepath.Join(c.dir, name)}
	}
	return out
}

// unfold replaces the destination symlink at destEntry (pointing at
// directory sPrime) with a real directory containing one symlink per
// child of sPrime, so another source can subsequently contribute
// entries alongside it.
func unfold(b *builder, fs afero.Fs, destEntry, sPrime, destParent string) {
	b.addUnlink(destEntry, sPrime, destParent)
	b.addMakeDirectory(destEntry)

	names, err := entryNames(fs, sPrime)
	if err != nil {
		b.addError(err)
		return
	}
	for _, name := range names {
		childSrc := filepath.Join(sPrime, name)
		childDest := filepath.Join(destEntry, name)
		b.addLink(childDest, childSrc, destEntry)
	}
}

// foldCrossSourceConflicts is a defense-in-depth pass for spec.md
// §4.2.3: stowEntry's per-name merging should never leave two
// SymbolicLink actions targeting the same destination, but if it ever
// did, this still catches it rather than silently double-linking.
func foldCrossSourceConflicts(b *builder) {
	byDest := make(map[string][]int)
	for i, act := range b.actions {
		if act.Kind == action.SymbolicLink {
			byDest[act.Dest] = append(byDest[act.Dest], i)
		}
	}

	dests := make([]string, 0, len(byDest))
	for d := range byDest {
		dests = append(dests, d)
	}
	sort.Strings(dests)

	remove := make(map[int]bool)
	for _, dest := range dests {
		idxs := byDest[dest]
		if len(idxs) < 2 {
			continue
		}
		sources := make([]string, len(idxs))
		for i, idx := range idxs {
			sources[i] = b.linkSource[idx]
			remove[idx] = true
		}
		sort.Strings(sources)
		b.errf(ConflictsWithAnotherSource, sources...)
	}

	if len(remove) == 0 {
		return
	}
	actions := make([]action.Action, 0, len(b.actions)-len(remove))
	linkSource := make([]string, 0, len(b.linkSource)-len(remove))
	for i, act := range b.actions {
		if remove[i] {
			continue
		}
		actions = append(actions, act)
		linkSource = append(linkSource, b.linkSource[i])
	}
	b.actions = actions
	b.linkSource = linkSource
}
