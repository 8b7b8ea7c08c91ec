// Package interp walks the command tree and runs it: control flow and
// combinators in-process, simple commands dispatched to aliases,
// functions, builtins or external processes, pipelines through the
// pipeline runner.
package interp

import (
	"fmt"
	"io"

	"github.com/gshell/gsh/builtins"
	"github.com/gshell/gsh/core/ast"
	"github.com/gshell/gsh/core/expand"
	"github.com/gshell/gsh/core/jobs"
	"github.com/gshell/gsh/core/parser"
	"github.com/gshell/gsh/core/state"
)

// Executor evaluates command trees against a session. Stdin, Stdout
// and Stderr are the terminal-facing streams; builtins and externals
// receive them unless a redirect or pipeline overrides them.
type Executor struct {
	State  *state.State
	Jobs   *jobs.Table
	Expand *expand.Expander

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func New(st *state.State, table *jobs.Table, stdin io.Reader, stdout, stderr io.Writer) *Executor {
	return &Executor{
		State:  st,
		Jobs:   table,
		Expand: expand.New(st, stderr),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// EvalLine parses and executes one line of command text. It is the
// entry point shared by interactive input, rc files, source and
// function bodies. Syntax errors are reported and yield exit code 2.
func (e *Executor) EvalLine(line string) int {
	cmd, err := parser.New(e.State.Home()).Parse(line)
	if err != nil {
		fmt.Fprintf(e.Stderr, "gsh: %v\n", err)
		e.State.SetLastExit(2)
		return 2
	}
	return e.Execute(cmd)
}

// Execute runs one command tree and returns its exit code. $? is
// updated after every node so conditions and sequences observe it.
func (e *Executor) Execute(cmd *ast.Command) int {
	code := e.exec(cmd)
	e.State.SetLastExit(code)
	return code
}

func (e *Executor) exec(cmd *ast.Command) int {
	switch cmd.Kind {
	case ast.KindSimple:
		return e.runSimple(cmd.Simple)

	case ast.KindPipeline:
		return e.runPipeline(cmd.Pipeline)

	case ast.KindAnd:
		if code := e.Execute(cmd.Left); code != 0 {
			return code
		}
		return e.Execute(cmd.Right)

	case ast.KindOr:
		if code := e.Execute(cmd.Left); code == 0 {
			return code
		}
		return e.Execute(cmd.Right)

	case ast.KindSequence:
		e.Execute(cmd.Left)
		return e.Execute(cmd.Right)

	case ast.KindIf:
		if e.Execute(cmd.If.Cond) == 0 {
			return e.runBlock(cmd.If.Body)
		}
		if cmd.If.Else != nil {
			return e.runBlock(cmd.If.Else)
		}
		return 0

	case ast.KindFor:
		last := 0
		for _, item := range e.Expand.ExpandArgs(cmd.For.Items) {
			e.State.Setenv(cmd.For.Var, item)
			last = e.runBlock(cmd.For.Body)
			if _, requested := e.State.ExitRequested(); requested {
				break
			}
		}
		return last

	case ast.KindWhile:
		last := 0
		for e.Execute(cmd.While.Cond) == 0 {
			last = e.runBlock(cmd.While.Body)
			if _, requested := e.State.ExitRequested(); requested {
				break
			}
		}
		return last

	case ast.KindFuncDef:
		e.State.DefineFunction(&state.Function{
			Name: cmd.FuncDef.Name,
			Body: cmd.FuncDef.Body,
		})
		if err := e.State.SaveFunctions(); err != nil {
			fmt.Fprintf(e.Stderr, "gsh: saving functions: %v\n", err)
		}
		return 0

	case ast.KindFuncCall:
		fn, ok := e.State.Function(cmd.FuncCall.Name)
		if !ok {
			e.commandNotFound(cmd.FuncCall.Name)
			return 127
		}
		return e.callFunction(fn, cmd.FuncCall.Args)

	default:
		fmt.Fprintf(e.Stderr, "gsh: cannot execute %s node\n", cmd.Kind)
		return 1
	}
}

// runBlock executes a body of statements, honoring exit-on-error and
// a pending exit request.
func (e *Executor) runBlock(cmds []*ast.Command) int {
	last := 0
	for _, cmd := range cmds {
		last = e.Execute(cmd)
		if _, requested := e.State.ExitRequested(); requested {
			return last
		}
		if last != 0 && e.State.ExitOnError() {
			return last
		}
	}
	return last
}

// builtinProc builds the invocation context handed to a builtin.
func (e *Executor) builtinProc(args []string, stdin io.Reader, stdout, stderr io.Writer) *builtins.Proc {
	return &builtins.Proc{
		State:    e.State,
		Jobs:     e.Jobs,
		Args:     args,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Eval:     e.EvalLine,
		LookPath: e.LookPath,
	}
}
