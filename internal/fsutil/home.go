package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading "~" (or "~/...") in path to the current
// user's home directory. Paths that don't start with "~" are returned
// unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Normalize expands a leading "~" and resolves the result to an
// absolute, lexically cleaned path. It never touches the filesystem
// beyond reading the home directory, and never resolves symlinks.
func Normalize(path string) (string, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
