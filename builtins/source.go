package builtins

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Source executes commands from a file in the current session, one
// line at a time. A failing line is reported and execution continues.
func Source(p *Proc) int {
	if len(p.Args) < 2 {
		fmt.Fprintln(p.Stderr, "source: filename required")
		return 1
	}

	file := p.Args[1]
	if !path.IsAbs(file) {
		file = path.Join(p.State.Cwd(), file)
	}

	data, err := afero.ReadFile(p.State.FS(), file)
	if err != nil {
		fmt.Fprintf(p.Stderr, "source: %s: %v\n", p.Args[1], err)
		return 1
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.Eval(line)
	}
	return 0
}

func init() {
	register("source", Source)
	register(".", Source)
}
