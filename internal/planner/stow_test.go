package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/joelvaneenwyk/stow-dploy/internal/action"
)

func applyAll(t *testing.T, fs afero.Fs, p *Plan) {
	t.Helper()
	require.Empty(t, p.Errors)
	for _, a := range p.Actions {
		require.NoError(t, a.Apply(fs), a.Describe())
	}
}

func mkTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(f), 0o644))
	}
}

func TestStowSimpleFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	plan := Stow(fs, []string{src}, dest, nil)
	applyAll(t, fs, plan)

	target, err := os.Readlink(filepath.Join(dest, "aaa"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("..", "S", "aaa"), target)
}

func TestStowBasicDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa/aaa", "aaa/bbb", "aaa/ccc/aaa", "aaa/ccc/bbb")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	plan := Stow(fs, []string{src}, dest, nil)
	applyAll(t, fs, plan)

	target, err := os.Readlink(filepath.Join(dest, "aaa"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("..", "S", "aaa"), target)
}

func TestStowTwoSourceUnfold(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s1 := filepath.Join(base, "S1")
	s2 := filepath.Join(base, "S2")
	dest := filepath.Join(base, "D")
	mkTree(t, s1, "aaa/aaa", "aaa/bbb", "aaa/ccc/aaa", "aaa/ccc/bbb")
	mkTree(t, s2, "aaa/ddd", "aaa/eee", "aaa/fff/aaa", "aaa/fff/bbb")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	plan := Stow(fs, []string{s1, s2}, dest, nil)
	applyAll(t, fs, plan)

	fi, err := os.Lstat(filepath.Join(dest, "aaa"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	require.Zero(t, fi.Mode()&os.ModeSymlink)

	for _, name := range []string{"aaa", "bbb", "ccc"} {
		target, err := os.Readlink(filepath.Join(dest, "aaa", name))
		require.NoError(t, err)
		require.Equal(t, filepath.Join("..", "..", "S1", "aaa", name), target)
	}
	for _, name := range []string{"ddd", "eee", "fff"} {
		target, err := os.Readlink(filepath.Join(dest, "aaa", name))
		require.NoError(t, err)
		require.Equal(t, filepath.Join("..", "..", "S2", "aaa", name), target)
	}
}

func TestStowCrossSourceConflict(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s1 := filepath.Join(base, "S1")
	s2 := filepath.Join(base, "S2")
	dest := filepath.Join(base, "D")
	mkTree(t, s1, "aaa/aaa")
	mkTree(t, s2, "aaa/aaa")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	plan := Stow(fs, []string{s1, s2}, dest, nil)
	require.Len(t, plan.Errors, 1)

	perr, ok := plan.Errors[0].(*Error)
	require.True(t, ok)
	require.Equal(t, ConflictsWithAnotherSource, perr.Kind)
	require.ElementsMatch(t, []string{
		filepath.Join(s1, "aaa", "aaa"),
		filepath.Join(s2, "aaa", "aaa"),
	}, perr.Paths)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStowIdempotent(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	applyAll(t, fs, Stow(fs, []string{src}, dest, nil))

	second := Stow(fs, []string{src}, dest, nil)
	require.Empty(t, second.Errors)
	require.Len(t, second.Actions, 1)
	require.Equal(t, action.AlreadyLinked, second.Actions[0].Kind)
}

func TestStowIgnorePattern(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	dest := filepath.Join(base, "D")
	mkTree(t, src, "aaa", "aaa.bak")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	fs := afero.NewOsFs()
	plan := Stow(fs, []string{src}, dest, []string{"*.bak"})
	applyAll(t, fs, plan)

	_, err := os.Lstat(filepath.Join(dest, "aaa.bak"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Lstat(filepath.Join(dest, "aaa"))
	require.NoError(t, err)
}
