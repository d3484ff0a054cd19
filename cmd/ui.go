package cmd

import (
	"bytes"
	"io"
	"sync"

	"github.com/fatih/color"
)

// consoleWriter syncs writes with a mutex and, on a TTY, inserts a
// clear-to-end-of-line code before each newline so colored output
// doesn't leave stray trailing characters behind on redraw.
type consoleWriter struct {
	Writer io.Writer
	IsTTY  bool
	Mutex  *sync.Mutex
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	origLen := len(p)
	if w.IsTTY {
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.Mutex.Lock()
	n, err := w.Writer.Write(p)
	w.Mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// getColor returns the requested color, or a disabled one when noColor
// is set. EnableColor/DisableColor are explicit because the color
// package otherwise probes os.Stdout itself, which would ignore the
// colorable wrapping done in newGlobalState.
func getColor(noColor bool, attributes ...color.Attribute) *color.Color {
	if noColor {
		c := color.New()
		c.DisableColor()
		return c
	}
	c := color.New(attributes...)
	c.EnableColor()
	return c
}

// colorizeAction returns an executor.Executor/dploy.Options-shaped
// Colorize function: it colors an action line by its kind label, the
// way mad01-dotter's CreateSymlink colors "linked"/"backed up"/
// "skipped" — green for a link made or already in place, yellow for a
// link removed, cyan for directory bookkeeping, and plain text when
// noColor (or NO_COLOR) disables it.
func colorizeAction(noColor bool) func(kind, line string) string {
	green := getColor(noColor, color.FgGreen)
	yellow := getColor(noColor, color.FgYellow)
	cyan := getColor(noColor, color.FgCyan)

	return func(kind, line string) string {
		switch kind {
		case "link", "already linked":
			return green.Sprint(line)
		case "unlink", "already unlinked":
			return yellow.Sprint(line)
		case "make directory", "remove directory":
			return cyan.Sprint(line)
		default:
			return line
		}
	}
}
