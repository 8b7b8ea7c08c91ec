package builtins

import "fmt"

// Which reports whether each argument is a builtin, a function or an
// external command on PATH. Unknown names exit 1.
func Which(p *Proc) int {
	if len(p.Args) < 2 {
		fmt.Fprintln(p.Stderr, "usage: which <command> [command2 ...]")
		return 1
	}

	code := 0
	for _, name := range p.Args[1:] {
		if IsBuiltin(name) {
			fmt.Fprintf(p.Stdout, "%s: shell builtin\n", name)
			continue
		}
		if _, ok := p.State.Function(name); ok {
			fmt.Fprintf(p.Stdout, "%s: shell function\n", name)
			continue
		}
		if path, ok := p.LookPath(name); ok {
			fmt.Fprintln(p.Stdout, path)
		} else {
			fmt.Fprintf(p.Stderr, "%s: not found\n", name)
			code = 1
		}
	}
	return code
}

// Functions prints all user-defined functions.
func Functions(p *Proc) int {
	names := p.State.FunctionNames()
	if len(names) == 0 {
		fmt.Fprintln(p.Stdout, "No functions defined.")
		return 0
	}
	for _, name := range names {
		fn, _ := p.State.Function(name)
		fmt.Fprintf(p.Stdout, "function %s() {\n", fn.Name)
		for _, line := range fn.Body {
			fmt.Fprintf(p.Stdout, "  %s\n", line)
		}
		fmt.Fprintln(p.Stdout, "}")
	}
	return 0
}

func init() {
	register("which", Which)
	register("functions", Functions)
}
