// Package jobs tracks backgrounded external processes: their pid,
// command text and lifecycle status. Entries persist after the process
// exits until the owner removes them, so the interactive loop can
// report completions at the next prompt.
package jobs

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Status is a job's lifecycle state.
type Status int

const (
	StatusRunning Status = iota
	StatusStopped
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusStopped:
		return "Stopped"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Job is one background process. A monitor goroutine owns the Wait
// call; everyone else reads status under the table lock and blocks on
// the done channel when they need completion.
type Job struct {
	ID      int
	PID     int
	Command string
	Status  Status
	Started time.Time

	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
	notified bool
}

// Done returns a channel closed when the process exits.
func (j *Job) Done() <-chan struct{} { return j.done }

// ExitCode is valid once Done() is closed.
func (j *Job) ExitCode() int { return j.exitCode }

// Table is the session job table. Safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	jobs   map[int]*Job
	nextID int
}

func NewTable() *Table {
	return &Table{
		jobs:   make(map[int]*Job),
		nextID: 1,
	}
}

// Add registers an already-started command and begins monitoring it.
// The caller must not Wait on cmd itself; the monitor owns that.
func (t *Table) Add(cmd *exec.Cmd, command string) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	job := &Job{
		ID:      t.nextID,
		PID:     cmd.Process.Pid,
		Command: command,
		Status:  StatusRunning,
		Started: time.Now(),
		cmd:     cmd,
		done:    make(chan struct{}),
	}
	t.jobs[job.ID] = job
	t.nextID++

	go t.monitor(job)
	return job
}

func (t *Table) monitor(job *Job) {
	err := job.cmd.Wait()

	t.mu.Lock()
	job.exitCode = WaitExitCode(err)
	job.Status = StatusDone
	t.mu.Unlock()

	close(job.done)
}

// WaitExitCode maps a Wait error to a shell exit code, using
// 128+signal for signal deaths.
func WaitExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 1
}

func (t *Table) Get(id int) (*Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	return job, ok
}

// List returns all jobs ordered by ID.
func (t *Table) List() []*Job {
	t.mu.RLock()
	defer t.mu.RUnlock()

	jobs := make([]*Job, 0, len(t.jobs))
	for _, job := range t.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs
}

// MostRecent returns the job with the highest ID, the default target
// for fg and bg.
func (t *Table) MostRecent() (*Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var latest *Job
	for _, job := range t.jobs {
		if latest == nil || job.ID > latest.ID {
			latest = job
		}
	}
	return latest, latest != nil
}

func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.jobs)
}

// Reap returns jobs that finished since the last call, without
// removing them. The interactive loop prints these before each prompt
// and then removes them.
func (t *Table) Reap() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	var finished []*Job
	for _, job := range t.jobs {
		if job.Status == StatusDone && !job.notified {
			job.notified = true
			finished = append(finished, job)
		}
	}
	sort.Slice(finished, func(i, j int) bool { return finished[i].ID < finished[j].ID })
	return finished
}

func (t *Table) Remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
}

// Stop suspends a running job with SIGSTOP.
func (t *Table) Stop(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	if job.Status != StatusRunning {
		return fmt.Errorf("job %d is not running", id)
	}
	if err := unix.Kill(job.PID, unix.SIGSTOP); err != nil {
		return err
	}
	job.Status = StatusStopped
	return nil
}

// Background resumes a stopped job with SIGCONT, leaving it in the
// background. Resuming a running job is a no-op.
func (t *Table) Background(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	if job.Status == StatusDone {
		return fmt.Errorf("job %d has already finished", id)
	}
	if job.Status != StatusStopped {
		return nil
	}
	if err := unix.Kill(job.PID, unix.SIGCONT); err != nil {
		return err
	}
	job.Status = StatusRunning
	return nil
}

// Foreground resumes a job if stopped and blocks until it exits,
// returning its exit code. The entry is removed from the table.
func (t *Table) Foreground(id int) (int, error) {
	if err := t.Background(id); err != nil {
		return 0, err
	}

	job, ok := t.Get(id)
	if !ok {
		return 0, fmt.Errorf("job %d not found", id)
	}

	<-job.done
	t.Remove(id)
	return job.ExitCode(), nil
}

// Kill terminates a job with SIGTERM, falling back to SIGKILL when
// that cannot be delivered. The monitor goroutine records completion.
func (t *Table) Kill(id int) error {
	t.mu.RLock()
	job, ok := t.jobs[id]
	t.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	if job.Status == StatusDone {
		return fmt.Errorf("job %d has already finished", id)
	}

	// A stopped process cannot handle SIGTERM; wake it first.
	_ = unix.Kill(job.PID, unix.SIGCONT)
	if err := unix.Kill(job.PID, unix.SIGTERM); err != nil {
		return unix.Kill(job.PID, unix.SIGKILL)
	}
	return nil
}

// KillPID signals an arbitrary pid that may not be in the table, for
// the kill builtin's raw-pid form.
func KillPID(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}
