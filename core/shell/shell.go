// Package shell drives the interactive session: the readline loop,
// prompt rendering, rc-file loading and job completion reporting.
package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/gshell/gsh/core/config"
	"github.com/gshell/gsh/core/interp"
	"github.com/gshell/gsh/core/jobs"
	"github.com/gshell/gsh/core/state"
)

type Shell struct {
	State    *state.State
	Jobs     *jobs.Table
	Exec     *interp.Executor
	Config   *config.Config
	Readline *readline.Instance

	stdout io.Writer
	stderr io.Writer
}

// Options configures New. Zero values fall back to the process's
// standard streams and the built-in configuration.
type Options struct {
	Config *config.Config
	State  *state.State

	// SkipRC suppresses rc-file evaluation (the --norc flag).
	SkipRC bool

	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer
}

func New(opts Options) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	st := opts.State
	if st == nil {
		st = state.New(afero.NewOsFs())
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	st.SetHistoryMax(cfg.HistorySize)
	for name, value := range cfg.Aliases {
		st.SetAlias(name, value)
	}
	if st.Getenv("PS1") == "" {
		st.Setenv("PS1", cfg.Prompt)
	}

	table := jobs.NewTable()
	exec := interp.New(st, table, opts.Stdin, opts.Stdout, opts.Stderr)

	sh := &Shell{
		State:  st,
		Jobs:   table,
		Exec:   exec,
		Config: cfg,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
	}

	rcPath := config.ExpandHome(cfg.RCFile, st.Home())
	if !opts.SkipRC && rcPath != "" {
		sh.loadRC(rcPath)
	}
	// Saves rewrite the rc file only once startup evaluation is done.
	st.SetRCPath(rcPath)

	rl, err := readline.NewEx(&readline.Config{
		Stdin:        readline.NewCancelableStdin(opts.Stdin),
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		HistoryFile:  config.ExpandHome(cfg.HistoryFile, st.Home()),
		HistoryLimit: cfg.HistorySize,
		FuncIsTerminal: func() bool {
			f, ok := opts.Stdin.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
	})
	if err != nil {
		return nil, err
	}
	sh.Readline = rl

	return sh, nil
}

// Run is the interactive loop. It returns the shell's final exit
// code: the argument to exit, or the last command's code on EOF.
func (s *Shell) Run() int {
	defer s.Readline.Close()
	defer trapInterrupts()()

	for {
		s.reportFinishedJobs()

		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == readline.ErrInterrupt:
			// Ctrl-C abandons the pending line.
			s.State.SetLastExit(130)
			continue

		case err == io.EOF:
			return s.State.LastExit()

		case err != nil:
			fmt.Fprintf(s.stderr, "gsh: read error: %v\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.State.AddHistory(line)

		s.Exec.EvalLine(line)

		if code, requested := s.State.ExitRequested(); requested {
			return code
		}
	}
}

// reportFinishedJobs prints completions that happened since the last
// prompt and retires their table entries.
func (s *Shell) reportFinishedJobs() {
	for _, job := range s.Jobs.Reap() {
		fmt.Fprintf(s.stdout, "[%d] Done %s\n", job.ID, job.Command)
		s.Jobs.Remove(job.ID)
	}
}
