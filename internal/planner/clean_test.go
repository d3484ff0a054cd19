package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesOnlyBrokenSymlinksIntoSource(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := filepath.Join(base, "S")
	other := filepath.Join(base, "Other")
	dest := filepath.Join(base, "D")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(other, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(other, "kept.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(dest, 0o755))

	// Broken link into src: src/bbb no longer exists.
	require.NoError(t, os.Symlink(filepath.Join("..", "S", "bbb"), filepath.Join(dest, "bbb")))
	// Live link into a different source: must be left alone.
	require.NoError(t, os.Symlink(filepath.Join("..", "Other", "kept.txt"), filepath.Join(dest, "kept")))
	// Regular file: must be left alone.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "plain.txt"), []byte("x"), 0o644))

	fs := afero.NewOsFs()
	plan := Clean(fs, []string{src}, dest, nil)
	applyAll(t, fs, plan)

	_, err := os.Lstat(filepath.Join(dest, "bbb"))
	require.True(t, os.IsNotExist(err))

	_, err = os.Lstat(filepath.Join(dest, "kept"))
	require.NoError(t, err)
	_, err = os.Lstat(filepath.Join(dest, "plain.txt"))
	require.NoError(t, err)
}
