package interp

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gshell/gsh/core/ast"
	"github.com/gshell/gsh/core/jobs"
)

// LookPath resolves a command name to an executable path using the
// session's PATH, not the process's. Names containing a slash are
// resolved directly against the working directory.
func (e *Executor) LookPath(name string) (string, bool) {
	if strings.Contains(name, "/") {
		candidate := name
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(e.State.Cwd(), candidate)
		}
		if isExecutable(e, candidate) {
			return candidate, true
		}
		return "", false
	}

	for _, dir := range filepath.SplitList(e.State.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(e, candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isExecutable(e *Executor, path string) bool {
	info, err := e.State.FS().Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}

// runExternal spawns an external process with the session's overlay
// environment and working directory. Foreground commands block until
// exit; background commands are registered in the job table.
func (e *Executor) runExternal(args []string, redirects []ast.Redirect, background bool) int {
	path, ok := e.LookPath(args[0])
	if !ok {
		e.commandNotFound(args[0])
		return 127
	}

	streams, err := e.applyRedirects(redirects, e.Stdin, e.Stdout, e.Stderr)
	if err != nil {
		fmt.Fprintf(e.Stderr, "gsh: %v\n", err)
		return 1
	}

	cmd := exec.Command(path, args[1:]...)
	cmd.Args = args
	cmd.Dir = e.State.Cwd()
	cmd.Env = e.State.Environ()
	cmd.Stdin = streams.stdin
	cmd.Stdout = streams.stdout
	cmd.Stderr = streams.stderr

	if background {
		if err := cmd.Start(); err != nil {
			streams.Close()
			return e.reportSpawnError(args[0], err)
		}
		job := e.Jobs.Add(cmd, strings.Join(args, " "))
		// Redirect files stay open until the monitor sees the exit.
		go func() {
			<-job.Done()
			streams.Close()
		}()
		fmt.Fprintf(e.Stdout, "[%d] %d\n", job.ID, job.PID)
		return 0
	}

	defer streams.Close()
	if err := cmd.Start(); err != nil {
		return e.reportSpawnError(args[0], err)
	}
	return jobs.WaitExitCode(cmd.Wait())
}

// reportSpawnError maps a failed spawn to a shell exit code:
// 126 for permission problems, 127 when the file vanished between
// lookup and exec, 1 otherwise.
func (e *Executor) reportSpawnError(name string, err error) int {
	switch {
	case errors.Is(err, os.ErrPermission):
		fmt.Fprintf(e.Stderr, "gsh: %s: permission denied\n", name)
		return 126
	case errors.Is(err, os.ErrNotExist):
		e.commandNotFound(name)
		return 127
	default:
		fmt.Fprintf(e.Stderr, "gsh: %s: %v\n", name, err)
		return 1
	}
}
