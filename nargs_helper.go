package nargs

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ExitFunc ends the program with a status code.
type ExitFunc func(int)

var osExit ExitFunc = os.Exit
var stderrWriter io.Writer = os.Stderr
var stdoutWriter io.Writer = os.Stdout

// terminalWidth reports the width of the terminal on stdout, 0 when stdout
// is not a terminal.
var terminalWidth = func() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// SetStderrWriter redirects warnings and error output, e.g. in tests.
func SetStderrWriter(writer io.Writer) {
	stderrWriter = writer
}

// SetStdoutWriter redirects help and dump output.
func SetStdoutWriter(writer io.Writer) {
	stdoutWriter = writer
}

// SetExitFunc replaces os.Exit for ParseOrExit.
func SetExitFunc(exitFunc ExitFunc) {
	osExit = exitFunc
}

// width is the usage width in effect for r.
func (r *Registry) width() int {
	if r.maxWidth != autoWidth {
		return r.maxWidth
	}
	if w := terminalWidth(); w > 0 {
		return min(w, maxMaxWidth)
	}
	return defaultMaxWidth
}
