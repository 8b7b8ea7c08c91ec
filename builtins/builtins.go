// Package builtins implements the commands that run in-process.
// Builtins never touch real process file descriptors; they read and
// write through the Proc they are given, which the executor wires to
// the terminal, a pipeline buffer or a redirect target.
package builtins

import (
	"fmt"
	"io"
	"sort"

	getopt "github.com/pborman/getopt/v2"

	"github.com/gshell/gsh/core/jobs"
	"github.com/gshell/gsh/core/state"
)

// Proc carries one builtin invocation: the session it acts on, its
// argv (argv[0] is the builtin name) and its I/O streams.
type Proc struct {
	State *state.State
	Jobs  *jobs.Table

	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Eval re-enters the interpreter with a line of command text, for
	// builtins that execute scripts (source, rc loading).
	Eval func(line string) int

	// LookPath resolves an external command against the session PATH,
	// for which.
	LookPath func(name string) (string, bool)
}

// Func is a builtin entry point returning its exit code.
type Func func(p *Proc) int

var all = make(map[string]Func)

func register(name string, fn Func) {
	all[name] = fn
}

// Lookup finds a builtin by name.
func Lookup(name string) (Func, bool) {
	fn, ok := all[name]
	return fn, ok
}

// IsBuiltin reports whether name is implemented in-process.
func IsBuiltin(name string) bool {
	_, ok := all[name]
	return ok
}

// Names returns all builtin names in sorted order.
func Names() []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimpleCommand wraps a builtin with getopt flag parsing and a
// standard --help flag.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is
	// non-nil when Run() is called, the default help flag isn't added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}
	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses flags and, on success, calls the callback.
func (s *SimpleCommand) Run(p *Proc, callback func() int) int {
	opts := s.Flags()

	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(p.Args, nil); err != nil {
		fmt.Fprintf(p.Stderr, "error: %s\n\n", err)
		s.PrintHelp(p.Stdout)
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout)
		return 0
	}

	return callback()
}
