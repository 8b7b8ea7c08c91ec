package interp

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/gshell/gsh/core/ast"
)

// streams holds the effective stdio of one command after redirects
// are applied. Close releases any files that were opened.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	closers []io.Closer
}

func (s *streams) Close() {
	for _, c := range s.closers {
		c.Close()
	}
}

// applyRedirects opens redirect targets against the session
// filesystem, resolving relative paths against the working directory.
// Redirects are applied in order, so 2>&1 binds stderr to whatever
// stdout is at that point.
func (e *Executor) applyRedirects(redirects []ast.Redirect, stdin io.Reader, stdout, stderr io.Writer) (*streams, error) {
	s := &streams{stdin: stdin, stdout: stdout, stderr: stderr}

	for _, r := range redirects {
		switch r.Kind {
		case ast.RedirStdout:
			f, err := e.openTarget(r.Target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.stdout = f
			s.closers = append(s.closers, f)

		case ast.RedirStdoutAppend:
			f, err := e.openTarget(r.Target, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.stdout = f
			s.closers = append(s.closers, f)

		case ast.RedirStdin:
			f, err := e.openTarget(r.Target, os.O_RDONLY)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.stdin = f
			s.closers = append(s.closers, f)

		case ast.RedirStderr:
			f, err := e.openTarget(r.Target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.stderr = f
			s.closers = append(s.closers, f)

		case ast.RedirStderrToStdout:
			s.stderr = s.stdout
		}
	}
	return s, nil
}

func (e *Executor) openTarget(target string, flag int) (io.ReadWriteCloser, error) {
	if target == "" {
		return nil, fmt.Errorf("missing redirect target")
	}
	name := e.Expand.ExpandWord(target)
	if !path.IsAbs(name) {
		name = path.Join(e.State.Cwd(), name)
	}
	f, err := e.State.FS().OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return f, nil
}
