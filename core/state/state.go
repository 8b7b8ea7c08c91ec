// Package state holds all mutable shell session state: the environment
// overlay, working directory, aliases, functions, history and the
// directory stack.
//
// The environment is an overlay: it is seeded from the process
// environment at startup and all writes stay in the overlay. The
// process environment is never mutated; exported variables reach child
// processes through Environ() at spawn time.
package state

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Function is a user-defined shell function. Body lines are raw source,
// re-parsed on every call so each line observes the effects of the
// lines before it.
type Function struct {
	Name string
	Body []string
}

// State is safe for concurrent use; background job monitors read the
// environment while the interactive loop mutates it.
type State struct {
	rw sync.RWMutex

	env       map[string]string
	cwd       string
	prevDir   string
	aliases   map[string]string
	functions map[string]*Function
	history   []string
	histMax   int
	dirStack  []string
	lastExit  int

	exitOnError   bool
	exitRequested bool
	exitCode      int

	fs     afero.Fs
	rcPath string
}

// New seeds a session from the process environment and working
// directory. fs backs all file access (rc file, glob walks, test -f)
// so tests can substitute an in-memory filesystem.
func New(fs afero.Fs) *State {
	s := &State{
		env:       make(map[string]string),
		aliases:   make(map[string]string),
		functions: make(map[string]*Function),
		histMax:   1000,
		fs:        fs,
	}

	for _, e := range os.Environ() {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		s.env[key] = value
	}

	if cwd, err := os.Getwd(); err == nil {
		s.cwd = cwd
	} else {
		s.cwd = "/"
	}
	s.env["PWD"] = s.cwd

	return s
}

// NewEmpty creates a state with no inherited environment, for tests.
func NewEmpty(fs afero.Fs) *State {
	return &State{
		env:       make(map[string]string),
		aliases:   make(map[string]string),
		functions: make(map[string]*Function),
		histMax:   1000,
		cwd:       "/",
		fs:        fs,
	}
}

// FS returns the filesystem backing the session.
func (s *State) FS() afero.Fs { return s.fs }

// ── environment ──

func (s *State) Getenv(key string) string {
	val, _ := s.LookupEnv(key)
	return val
}

func (s *State) LookupEnv(key string) (string, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()
	val, ok := s.env[key]
	return val, ok
}

func (s *State) Setenv(key, value string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.env[key] = value
}

func (s *State) Unsetenv(key string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	delete(s.env, key)
}

// Environ returns the overlay as KEY=VALUE pairs, sorted by key so
// output and child environments are deterministic.
func (s *State) Environ() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	env := make([]string, 0, len(s.env))
	for k, v := range s.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}

// Home returns $HOME from the overlay, or "/" when unset.
func (s *State) Home() string {
	if home := s.Getenv("HOME"); home != "" {
		return home
	}
	return "/"
}

// ── working directory ──

func (s *State) Cwd() string {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.cwd
}

// SetCwd records a directory change, tracking the previous directory
// for "cd -" and keeping PWD/OLDPWD in sync.
func (s *State) SetCwd(dir string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.prevDir = s.cwd
	s.cwd = dir
	s.env["OLDPWD"] = s.prevDir
	s.env["PWD"] = dir
}

func (s *State) PrevDir() string {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.prevDir
}

// ── aliases ──

func (s *State) SetAlias(name, value string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.aliases[name] = value
}

func (s *State) Alias(name string) (string, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()
	val, ok := s.aliases[name]
	return val, ok
}

func (s *State) Unalias(name string) bool {
	s.rw.Lock()
	defer s.rw.Unlock()
	_, ok := s.aliases[name]
	delete(s.aliases, name)
	return ok
}

// Aliases returns alias names in sorted order.
func (s *State) Aliases() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ── functions ──

func (s *State) DefineFunction(fn *Function) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.functions[fn.Name] = fn
}

func (s *State) Function(name string) (*Function, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()
	fn, ok := s.functions[name]
	return fn, ok
}

func (s *State) UndefineFunction(name string) bool {
	s.rw.Lock()
	defer s.rw.Unlock()
	_, ok := s.functions[name]
	delete(s.functions, name)
	return ok
}

// FunctionNames returns defined function names in sorted order.
func (s *State) FunctionNames() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	names := make([]string, 0, len(s.functions))
	for name := range s.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ── history ──

// AddHistory appends a line, dropping the oldest entries beyond the
// configured maximum.
func (s *State) AddHistory(line string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.history = append(s.history, line)
	if len(s.history) > s.histMax {
		s.history = s.history[len(s.history)-s.histMax:]
	}
}

func (s *State) History() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) SetHistoryMax(n int) {
	s.rw.Lock()
	defer s.rw.Unlock()
	if n > 0 {
		s.histMax = n
	}
}

// ── directory stack ──

func (s *State) PushDir(dir string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.dirStack = append(s.dirStack, dir)
}

func (s *State) PopDir() (string, bool) {
	s.rw.Lock()
	defer s.rw.Unlock()
	if len(s.dirStack) == 0 {
		return "", false
	}
	dir := s.dirStack[len(s.dirStack)-1]
	s.dirStack = s.dirStack[:len(s.dirStack)-1]
	return dir, true
}

func (s *State) Dirs() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()
	out := make([]string, len(s.dirStack))
	copy(out, s.dirStack)
	return out
}

// ── exit status and flags ──

func (s *State) LastExit() int {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.lastExit
}

func (s *State) SetLastExit(code int) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.lastExit = code
}

// ExitOnError reports whether "set -e" is active.
func (s *State) ExitOnError() bool {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.exitOnError
}

func (s *State) SetExitOnError(on bool) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.exitOnError = on
}

// RequestExit asks the main loop to terminate with code after the
// current command finishes.
func (s *State) RequestExit(code int) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.exitRequested = true
	s.exitCode = code
}

func (s *State) ExitRequested() (int, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.exitCode, s.exitRequested
}

// ── rc file ──

func (s *State) SetRCPath(path string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.rcPath = path
}

func (s *State) RCPath() string {
	s.rw.RLock()
	defer s.rw.RUnlock()
	return s.rcPath
}
