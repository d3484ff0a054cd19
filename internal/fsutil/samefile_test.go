//go:build !windows

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestSameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("y"), 0o644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink("a.txt", link))

	fs := afero.NewOsFs()

	same, err := SameFile(fs, link, a)
	require.NoError(t, err)
	require.True(t, same)

	same, err = SameFile(fs, link, b)
	require.NoError(t, err)
	require.False(t, same)
}

func TestIsSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.txt")
	require.NoError(t, os.WriteFile(regular, []byte("x"), 0o644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink("regular.txt", link))

	fs := afero.NewOsFs()

	is, err := IsSymlink(fs, link)
	require.NoError(t, err)
	require.True(t, is)

	is, err = IsSymlink(fs, regular)
	require.NoError(t, err)
	require.False(t, is)
}
