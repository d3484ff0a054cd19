//go:build !windows

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveModeUnix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	readable, writable, executable, err := EffectiveMode(dir)
	require.NoError(t, err)
	require.True(t, readable)
	require.True(t, writable)
	require.True(t, executable)

	roFile := filepath.Join(dir, "ro.txt")
	require.NoError(t, os.WriteFile(roFile, []byte("x"), 0o444))
	readable, writable, _, err = EffectiveMode(roFile)
	require.NoError(t, err)
	require.True(t, readable)
	if os.Geteuid() != 0 {
		require.False(t, writable)
	}
}
