package interp

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/gshell/gsh/builtins"
)

// suggestionDistance is the maximum edit distance for a did-you-mean
// candidate.
const suggestionDistance = 3

// commandNotFound reports an unresolvable command name, with a
// closest-match suggestion drawn from builtins, user functions and
// executables on PATH.
func (e *Executor) commandNotFound(name string) {
	color.New(color.FgRed).Fprintf(e.Stderr, "gsh: command not found: %s\n", name)
	if suggestion, ok := e.closestCommand(name); ok {
		color.New(color.FgYellow).Fprintf(e.Stderr, "did you mean: %s\n", suggestion)
	}
}

func (e *Executor) closestCommand(name string) (string, bool) {
	best := ""
	bestDist := suggestionDistance + 1

	consider := func(candidate string) {
		if candidate == "" || candidate == name {
			return
		}
		if d := levenshtein(name, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}

	for _, b := range builtins.Names() {
		consider(b)
	}
	for _, f := range e.State.FunctionNames() {
		consider(f)
	}
	for _, dir := range filepath.SplitList(e.State.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		entries, err := afero.ReadDir(e.State.FS(), dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				consider(entry.Name())
			}
		}
	}

	return best, best != ""
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
