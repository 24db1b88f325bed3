package nargs

import (
	"bytes"
	"os"
	"testing"

	"github.com/amterp/color"
	"github.com/google/shlex"
	"github.com/stretchr/testify/require"
)

// argv splits a command line the way a shell would.
func argv(t *testing.T, line string) []string {
	t.Helper()
	args, err := shlex.Split(line)
	require.NoError(t, err)
	return args
}

func newTestRegistry() *Registry {
	return NewRegistry("prog").SetFlags(FlagNoErrOutput | FlagNoColor)
}

func requireParseError(t *testing.T, err error) *ParseError {
	t.Helper()
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	return pe
}

type captured struct {
	stdout     bytes.Buffer
	stderr     bytes.Buffer
	exitCalled bool
	exitCode   int
}

// captureOutput redirects stdout, stderr and exit for the duration of a test.
func captureOutput(t *testing.T) *captured {
	t.Helper()
	c := &captured{}
	SetStdoutWriter(&c.stdout)
	SetStderrWriter(&c.stderr)
	SetExitFunc(func(code int) {
		c.exitCalled = true
		c.exitCode = code
	})
	t.Cleanup(func() {
		SetStdoutWriter(os.Stdout)
		SetStderrWriter(os.Stderr)
		SetExitFunc(os.Exit)
	})
	return c
}

func disableColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}
