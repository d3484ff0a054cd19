// Package cmd implements the dploy command-line interface: a cobra
// command tree wired to the root dploy library package.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joelvaneenwyk/stow-dploy/errext"
)

// globalFlags holds the persistent flag values shared by every subcommand.
type globalFlags struct {
	dryRun    bool
	silent    bool
	noColor   bool
	logOutput string
	logFormat string
}

func defaultFlags() globalFlags {
	return globalFlags{logOutput: "stderr", logFormat: "text"}
}

// globalState groups the process-external state (filesystem, working
// directory, argv, std streams, logger) behind one struct, the way
// nearly all of k6's codebase is kept out of direct `os` access so it
// can be swapped out in tests.
type globalState struct {
	fs    afero.Fs
	getwd func() (string, error)
	args  []string

	flags globalFlags

	outMutex       *sync.Mutex
	stdOut, stdErr *consoleWriter

	logger *logrus.Logger
}

func newGlobalState() *globalState {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))

	outMutex := &sync.Mutex{}
	stdOut := &consoleWriter{Writer: colorable.NewColorable(os.Stdout), IsTTY: stdoutTTY, Mutex: outMutex}
	stdErr := &consoleWriter{Writer: colorable.NewColorable(os.Stderr), IsTTY: stderrTTY, Mutex: outMutex}

	_, noColorSet := os.LookupEnv("NO_COLOR")

	logger := &logrus.Logger{
		Out: stdErr,
		Formatter: &logrus.TextFormatter{
			ForceColors:   stderrTTY,
			DisableColors: !stderrTTY || noColorSet,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	flags := defaultFlags()
	flags.noColor = noColorSet

	return &globalState{
		fs:       afero.NewOsFs(),
		getwd:    os.Getwd,
		args:     append(make([]string, 0, len(os.Args)), os.Args...),
		flags:    flags,
		outMutex: outMutex,
		stdOut:   stdOut,
		stdErr:   stdErr,
		logger:   logger,
	}
}

// rootCommand holds the cobra tree and the state it was built from.
type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{gs: gs}

	root := &cobra.Command{
		Use:               "dploy",
		Short:             "deploy a source tree into a destination with symlinks",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	root.SetVersionTemplate("dploy {{.Version}}\n")
	root.PersistentFlags().AddFlagSet(rootPersistentFlagSet(gs))
	root.SetArgs(gs.args[1:])
	root.SetOut(gs.stdOut)
	root.SetErr(gs.stdErr)

	root.AddCommand(
		getStowCmd(gs),
		getUnstowCmd(gs),
		getRestowCmd(gs),
		getCleanCmd(gs),
		getLinkCmd(gs),
		getVersionCmd(gs),
	)

	c.cmd = root
	return c
}

func rootPersistentFlagSet(gs *globalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.BoolVar(&gs.flags.dryRun, "dry-run", false, "print planned actions without applying them")
	flags.BoolVar(&gs.flags.silent, "silent", false, "suppress per-action output")
	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor, "disable colored output")
	flags.StringVar(&gs.flags.logOutput, "log-output", gs.flags.logOutput, "where to send logs: stderr, stdout, none, or file=<path>")
	flags.StringVar(&gs.flags.logFormat, "log-format", gs.flags.logFormat, "log output format: text, raw, or json")
	return flags
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	return c.setupLogger()
}

func (c *rootCommand) setupLogger() error {
	gs := c.gs

	switch out := gs.flags.logOutput; {
	case out == "stderr":
		gs.logger.SetOutput(gs.stdErr)
	case out == "stdout":
		gs.logger.SetOutput(gs.stdOut)
	case out == "none":
		gs.logger.SetOutput(discard{})
	case strings.HasPrefix(out, "file="):
		path := strings.TrimPrefix(out, "file=")
		f, err := gs.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("could not open log file %q: %w", path, err)
		}
		gs.logger.SetOutput(f)
	default:
		return fmt.Errorf("unsupported log output %q", out)
	}

	switch gs.flags.logFormat {
	case "raw":
		gs.logger.SetFormatter(&rawFormatter{})
	case "json":
		gs.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		gs.logger.SetFormatter(&logrus.TextFormatter{DisableColors: gs.flags.noColor})
	}
	return nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// rawFormatter prints only the log message, no timestamp or level.
type rawFormatter struct{}

func (rawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// Execute builds the command tree against real process state and runs
// it. It is the sole entry point main.main() calls.
func Execute() {
	gs := newGlobalState()
	root := newRootCommand(gs)

	if err := root.cmd.Execute(); err != nil {
		exitCode := 1
		var ecerr errext.HasExitCode
		if errors.As(err, &ecerr) {
			exitCode = int(ecerr.ExitCode())
		}

		fields := logrus.Fields{}
		var herr errext.HasHint
		if errors.As(err, &herr) {
			fields["hint"] = herr.Hint()
		}
		gs.logger.WithFields(fields).Error(err.Error())

		os.Exit(exitCode)
	}
}
