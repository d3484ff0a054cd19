package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// newTestGlobalState builds a globalState against the real OS filesystem
// (afero.NewOsFs()), since stow/unstow exercise real symlinks; tests pass
// absolute paths under their own t.TempDir().
func newTestGlobalState(t *testing.T) (*globalState, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	mu := &sync.Mutex{}
	gs := &globalState{
		fs:       afero.NewOsFs(),
		getwd:    os.Getwd,
		args:     []string{"dploy"},
		flags:    defaultFlags(),
		outMutex: mu,
		stdOut:   &consoleWriter{Writer: &outBuf, Mutex: mu},
		stdErr:   &consoleWriter{Writer: &errBuf, Mutex: mu},
		logger:   &logrus.Logger{Out: &errBuf, Formatter: &logrus.TextFormatter{}, Hooks: make(logrus.LevelHooks), Level: logrus.InfoLevel},
	}
	return gs, &outBuf, &errBuf
}

func TestStowCommandLinksFiles(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	source := filepath.Join(base, "pkg")
	dest := filepath.Join(base, "target")
	require.NoError(t, os.MkdirAll(source, 0o755))
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "bin"), []byte("x"), 0o644))

	gs, out, _ := newTestGlobalState(t)
	root := newRootCommand(gs)
	root.cmd.SetArgs([]string{"stow", source, dest})
	require.NoError(t, root.cmd.Execute())

	target, err := os.Readlink(filepath.Join(dest, "bin"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("..", "pkg", "bin"), target)
	require.Contains(t, out.String(), "dploy stow: link")
}

func TestLinkCommandDryRun(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	source := filepath.Join(base, "source.txt")
	dest := filepath.Join(base, "dest.txt")
	require.NoError(t, os.WriteFile(source, []byte("x"), 0o644))

	gs, out, _ := newTestGlobalState(t)
	root := newRootCommand(gs)
	root.cmd.SetArgs([]string{"--dry-run", "link", source, dest})
	require.NoError(t, root.cmd.Execute())

	_, err := os.Lstat(dest)
	require.True(t, os.IsNotExist(err))
	require.Contains(t, out.String(), "dploy link: link")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	gs, out, _ := newTestGlobalState(t)
	root := newRootCommand(gs)
	root.cmd.SetArgs([]string{"version"})
	require.NoError(t, root.cmd.Execute())
	require.Contains(t, out.String(), "dploy dev")
}

func TestVersionFlag(t *testing.T) {
	t.Parallel()

	gs, out, _ := newTestGlobalState(t)
	root := newRootCommand(gs)
	root.cmd.SetArgs([]string{"--version"})
	require.NoError(t, root.cmd.Execute())
	require.Contains(t, out.String(), "dploy dev")
}
