package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelative(t *testing.T) {
	t.Parallel()

	got := Relative("/home/user/dest", "/home/user/dotfiles/vimrc")
	require.Equal(t, filepath.FromSlash("../dotfiles/vimrc"), got)

	got = Relative("/home/user/dest/sub", "/home/user/dotfiles/vimrc")
	require.Equal(t, filepath.FromSlash("../../dotfiles/vimrc"), got)

	got = Relative("/home/user/dest", "/home/user/dest/vimrc")
	require.Equal(t, "vimrc", got)
}
