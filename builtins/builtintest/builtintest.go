// Package builtintest runs builtins against a fresh in-memory session,
// for tests.
package builtintest

import (
	"bytes"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/gshell/gsh/builtins"
	"github.com/gshell/gsh/core/jobs"
	"github.com/gshell/gsh/core/state"
)

// Cmd is similar in shape to exec.Cmd: populate the fields, then Run.
type Cmd struct {
	// Fn is the builtin under test.
	Fn builtins.Func
	// Argv includes the builtin name as the first element.
	Argv []string

	// State and Jobs start empty; seed them before Run as needed.
	State *state.State
	Jobs  *jobs.Table

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Eval and LookPath default to inert stubs.
	Eval     func(line string) int
	LookPath func(name string) (string, bool)

	ExitStatus int
}

func Command(fn builtins.Func, name string, arg ...string) *Cmd {
	return &Cmd{
		Fn:    fn,
		Argv:  append([]string{name}, arg...),
		State: state.NewEmpty(afero.NewMemMapFs()),
		Jobs:  jobs.NewTable(),
	}
}

// Run invokes the builtin and records its exit status.
func (c *Cmd) Run() int {
	if c.Stdin == nil {
		c.Stdin = strings.NewReader("")
	}
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	if c.Stderr == nil {
		c.Stderr = io.Discard
	}
	if c.Eval == nil {
		c.Eval = func(string) int { return 0 }
	}
	if c.LookPath == nil {
		c.LookPath = func(string) (string, bool) { return "", false }
	}

	c.ExitStatus = c.Fn(&builtins.Proc{
		State:    c.State,
		Jobs:     c.Jobs,
		Args:     c.Argv,
		Stdin:    c.Stdin,
		Stdout:   c.Stdout,
		Stderr:   c.Stderr,
		Eval:     c.Eval,
		LookPath: c.LookPath,
	})
	return c.ExitStatus
}

// CombinedOutput runs the builtin and returns everything written to
// stdout and stderr, interleaved.
func (c *Cmd) CombinedOutput() (string, int) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf
	code := c.Run()
	return buf.String(), code
}
