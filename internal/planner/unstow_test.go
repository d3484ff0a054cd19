package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestUnstowRestoresEmptyDest(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa/aaa", "aaa/bbb", "aaa/ccc/aaa", "aaa/ccc/bbb")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	applyAll(t, fs, Stow(fs, []string{src}, dest, nil))
	applyAll(t, fs, Unstow(fs, []string{src}, dest, nil))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestUnstowFolds(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s1 := filepath.Join(base, "S1")
	s2 := filepath.Join(base, "S2")
	dest := filepath.Join(base, "D")
	mkTree(t, s1, "aaa/aaa", "aaa/bbb", "aaa/ccc/aaa", "aaa/ccc/bbb")
	mkTree(t, s2, "aaa/ddd", "aaa/eee", "aaa/fff/aaa", "aaa/fff/bbb")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	applyAll(t, fs, Stow(fs, []string{s1, s2}, dest, nil))

	applyAll(t, fs, Unstow(fs, []string{s2}, dest, nil))

	fi, err := os.Lstat(filepath.Join(dest, "aaa"))
	require.NoError(t, err)
	require.NotZero(t, fi.Mode()&os.ModeSymlink, "D/aaa should be folded back into a single symlink")

	target, err := os.Readlink(filepath.Join(dest, "aaa"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("..", "S1", "aaa"), target)
}

func TestUnstowConflictsWithForeignLink(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	other := filepath.Join(base, "other.txt")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.Symlink(filepath.Join("..", "other.txt"), filepath.Join(dest, "aaa")))

	fs := afero.NewOsFs()
	plan := Unstow(fs, []string{src}, dest, nil)
	require.Len(t, plan.Errors, 1)
	perr, ok := plan.Errors[0].(*Error)
	require.True(t, ok)
	require.Equal(t, ConflictsWithExistingLink, perr.Kind)
}

func TestUnstowAlreadyUnlinked(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	plan := Unstow(fs, []string{src}, dest, nil)
	require.Empty(t, plan.Errors)
	require.Len(t, plan.Actions, 1)
	require.Equal(t, "dploy unstow: already unlinked "+filepath.Join(dest, "aaa")+" => "+filepath.Join("..", "S", "aaa"), plan.Actions[0].Describe())
}
