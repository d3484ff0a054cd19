package fsutil

import "path/filepath"

// Relative computes the lexical relative path from the directory `from`
// to the path `to`. It never touches the filesystem and never resolves
// symlinks — this is required so that a tree of symlinks emitted by the
// planner stays valid if the whole tree (source and destination
// together) is moved elsewhere.
//
// If from and to can't be related lexically (e.g. they sit on different
// Windows drives), Relative falls back to returning the absolute `from`
// unchanged, matching spec.md's documented fallback behavior.
func Relative(from, to string) string {
	rel, err := filepath.Rel(from, to)
	if err != nil {
		return from
	}
	return rel
}
