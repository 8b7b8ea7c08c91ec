package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/gshell/gsh/core/jobs"
)

// Jobs lists the job table. The most recently started job is marked
// with "+".
func Jobs(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "jobs",
		Short: "List background jobs.",
	}

	return cmd.Run(p, func() int {
		list := p.Jobs.List()
		if len(list) == 0 {
			fmt.Fprintln(p.Stdout, "No jobs")
			return 0
		}

		latest, _ := p.Jobs.MostRecent()
		for _, job := range list {
			marker := "-"
			if job.ID == latest.ID {
				marker = "+"
			}
			fmt.Fprintf(p.Stdout, "[%d] %s %-10s %s\n", job.ID, marker, job.Status, job.Command)
		}
		return 0
	})
}

// Fg brings a job to the foreground, waiting for it to finish and
// returning its exit code. Without an argument the most recent job is
// used.
func Fg(p *Proc) int {
	id, ok := jobID(p)
	if !ok {
		fmt.Fprintln(p.Stderr, "fg: no such job")
		return 1
	}

	job, found := p.Jobs.Get(id)
	if !found {
		fmt.Fprintln(p.Stderr, "fg: no such job")
		return 1
	}
	fmt.Fprintln(p.Stdout, job.Command)

	code, err := p.Jobs.Foreground(id)
	if err != nil {
		fmt.Fprintf(p.Stderr, "fg: %v\n", err)
		return 1
	}
	return code
}

// Bg resumes a stopped job in the background.
func Bg(p *Proc) int {
	id, ok := jobID(p)
	if !ok {
		fmt.Fprintln(p.Stderr, "bg: no such job")
		return 1
	}

	job, found := p.Jobs.Get(id)
	if !found {
		fmt.Fprintln(p.Stderr, "bg: no such job")
		return 1
	}
	if err := p.Jobs.Background(id); err != nil {
		fmt.Fprintf(p.Stderr, "bg: %v\n", err)
		return 1
	}
	fmt.Fprintf(p.Stdout, "[%d] %s\n", job.ID, job.Command)
	return 0
}

// Kill terminates a job by %id or an arbitrary process by pid.
func Kill(p *Proc) int {
	if len(p.Args) < 2 {
		fmt.Fprintln(p.Stderr, "usage: kill [%jobid | pid]")
		return 1
	}

	target := p.Args[1]
	if strings.HasPrefix(target, "%") {
		id, err := strconv.Atoi(target[1:])
		if err != nil {
			fmt.Fprintln(p.Stderr, "kill: invalid job id")
			return 1
		}
		if err := p.Jobs.Kill(id); err != nil {
			fmt.Fprintf(p.Stderr, "kill: %v\n", err)
			return 1
		}
		// Killed jobs are retired immediately rather than reported at
		// the next prompt.
		p.Jobs.Remove(id)
		return 0
	}

	pid, err := strconv.Atoi(target)
	if err != nil {
		fmt.Fprintln(p.Stderr, "kill: invalid pid")
		return 1
	}
	if err := jobs.KillPID(pid, unix.SIGTERM); err != nil {
		fmt.Fprintf(p.Stderr, "kill: %v\n", err)
		return 1
	}
	return 0
}

// jobID resolves the job argument ("%N" or "N"), defaulting to the
// most recent job.
func jobID(p *Proc) (int, bool) {
	if len(p.Args) > 1 {
		id, err := strconv.Atoi(strings.TrimPrefix(p.Args[1], "%"))
		return id, err == nil
	}
	job, ok := p.Jobs.MostRecent()
	if !ok {
		return 0, false
	}
	return job.ID, true
}

func init() {
	register("jobs", Jobs)
	register("fg", Fg)
	register("bg", Bg)
	register("kill", Kill)
}
