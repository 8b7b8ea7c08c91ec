package interp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gshell/gsh/builtins"
	"github.com/gshell/gsh/core/ast"
	"github.com/gshell/gsh/core/jobs"
)

// runPipeline connects the stages of a pipeline and runs them.
//
// External stages are connected with OS pipes and spawned without
// waiting; all spawned children are waited once the pipeline is fully
// constructed. Builtin stages run in-process with their output sink
// pointed at an in-memory buffer that becomes the next stage's stdin.
// The pipeline's exit code is the last stage's. A stage that fails to
// spawn is reported and contributes no output, but the remaining
// stages still run.
func (e *Executor) runPipeline(stages []*ast.Command) int {
	if len(stages) == 1 {
		return e.Execute(stages[0])
	}

	type child struct {
		cmd     *exec.Cmd
		streams *streams
	}

	lastCode := 0
	var input io.Reader
	var running []child
	var lastCmd *exec.Cmd
	var pipeReads []*os.File

	for i, stage := range stages {
		simple := stage.Simple
		args := e.Expand.ExpandArgs(simple.Args)
		if len(args) == 0 {
			input = emptyInput()
			continue
		}
		isLast := i == len(stages)-1

		stdin := input
		if stdin == nil {
			stdin = e.Stdin
		}

		if fn, ok := builtins.Lookup(args[0]); ok {
			code, out := e.runBuiltinStage(fn, args, simple.Redirects, stdin, isLast)
			if isLast {
				lastCode = code
			}
			input = out
			continue
		}

		cmd, next, streams, err := e.startExternalStage(args, simple.Redirects, stdin, isLast)
		if err != nil {
			input = emptyInput()
			continue
		}
		running = append(running, child{cmd, streams})
		if next != nil {
			pipeReads = append(pipeReads, next)
		}
		input = next
		if isLast {
			lastCmd = cmd
		}
	}

	// Every child holds its own copies of the pipe fds now; builtin
	// stages have already drained theirs.
	for _, pr := range pipeReads {
		pr.Close()
	}

	for _, c := range running {
		err := c.cmd.Wait()
		c.streams.Close()
		if c.cmd == lastCmd {
			lastCode = jobs.WaitExitCode(err)
		}
	}
	return lastCode
}

func emptyInput() io.Reader {
	return bytes.NewReader(nil)
}

// runBuiltinStage runs a builtin with its stdout captured for the next
// stage, unless it is the final stage or an explicit redirect claims
// the stream first.
func (e *Executor) runBuiltinStage(fn builtins.Func, args []string, redirects []ast.Redirect, stdin io.Reader, isLast bool) (int, io.Reader) {
	var capture *bytes.Buffer
	stdout := e.Stdout
	if !isLast {
		capture = &bytes.Buffer{}
		stdout = capture
	}

	streams, err := e.applyRedirects(redirects, stdin, stdout, e.Stderr)
	if err != nil {
		fmt.Fprintf(e.Stderr, "gsh: %v\n", err)
		return 1, emptyInput()
	}
	defer streams.Close()

	code := fn(e.builtinProc(args, streams.stdin, streams.stdout, streams.stderr))
	if capture == nil {
		return code, nil
	}
	return code, bytes.NewReader(capture.Bytes())
}

// startExternalStage spawns one external stage without waiting for it.
// For non-final stages the returned file is the read end of the pipe
// feeding the next stage; explicit redirects override the pipe
// connection.
func (e *Executor) startExternalStage(args []string, redirects []ast.Redirect, stdin io.Reader, isLast bool) (*exec.Cmd, *os.File, *streams, error) {
	path, ok := e.LookPath(args[0])
	if !ok {
		e.commandNotFound(args[0])
		return nil, nil, nil, fmt.Errorf("command not found: %s", args[0])
	}

	var next *os.File
	var pw *os.File
	stdout := io.Writer(e.Stdout)
	if !isLast {
		pr, w, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(e.Stderr, "gsh: pipe: %v\n", err)
			return nil, nil, nil, err
		}
		next = pr
		pw = w
		stdout = w
	}

	fail := func(err error) (*exec.Cmd, *os.File, *streams, error) {
		if pw != nil {
			pw.Close()
		}
		if next != nil {
			next.Close()
		}
		return nil, nil, nil, err
	}

	streams, err := e.applyRedirects(redirects, stdin, stdout, e.Stderr)
	if err != nil {
		fmt.Fprintf(e.Stderr, "gsh: %v\n", err)
		return fail(err)
	}

	cmd := exec.Command(path, args[1:]...)
	cmd.Args = args
	cmd.Dir = e.State.Cwd()
	cmd.Env = e.State.Environ()
	cmd.Stdin = streams.stdin
	cmd.Stdout = streams.stdout
	cmd.Stderr = streams.stderr

	if err := cmd.Start(); err != nil {
		streams.Close()
		e.reportSpawnError(args[0], err)
		return fail(err)
	}

	// The child holds its own copy of the write end; close ours so the
	// reader sees EOF when the child exits.
	if pw != nil {
		pw.Close()
	}
	return cmd, next, streams, nil
}
