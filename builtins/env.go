package builtins

import (
	"fmt"
	"strings"
)

// Export sets environment variables in the session overlay, or prints
// the overlay when called bare. "set -e" / "set +e" toggle
// exit-on-error; export and set are the same builtin.
func Export(p *Proc) int {
	if len(p.Args) > 1 {
		switch p.Args[1] {
		case "-e":
			p.State.SetExitOnError(true)
			return 0
		case "+e":
			p.State.SetExitOnError(false)
			return 0
		}
	}

	if len(p.Args) == 1 {
		for _, pair := range p.State.Environ() {
			fmt.Fprintln(p.Stdout, pair)
		}
		return 0
	}

	for _, arg := range p.Args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		p.State.Setenv(key, trimQuotes(value))
	}
	return 0
}

// Unset removes variables from the overlay.
func Unset(p *Proc) int {
	for _, arg := range p.Args[1:] {
		p.State.Unsetenv(arg)
	}
	return 0
}

// Alias defines or displays aliases. Definitions persist in the rc
// file. Arguments after the name are rejoined so "alias ll=ls -la"
// works even though the tokenizer split it.
func Alias(p *Proc) int {
	if len(p.Args) == 1 {
		for _, name := range p.State.Aliases() {
			value, _ := p.State.Alias(name)
			fmt.Fprintf(p.Stdout, "alias %s='%s'\n", name, value)
		}
		return 0
	}

	joined := strings.Join(p.Args[1:], " ")
	if name, value, ok := strings.Cut(joined, "="); ok {
		name = trimQuotes(strings.TrimSpace(name))
		if name == "" {
			fmt.Fprintln(p.Stderr, "alias: invalid syntax")
			return 1
		}
		p.State.SetAlias(name, trimQuotes(strings.TrimSpace(value)))
		if err := p.State.SaveAliases(); err != nil {
			fmt.Fprintf(p.Stderr, "alias: saving: %v\n", err)
		}
		return 0
	}

	// No '=': show the named aliases.
	for _, arg := range p.Args[1:] {
		if value, ok := p.State.Alias(arg); ok {
			fmt.Fprintf(p.Stdout, "alias %s='%s'\n", arg, value)
		} else {
			fmt.Fprintf(p.Stderr, "alias: %s: not found\n", arg)
		}
	}
	return 0
}

// Unalias removes aliases and persists the change.
func Unalias(p *Proc) int {
	for _, arg := range p.Args[1:] {
		p.State.Unalias(arg)
	}
	if err := p.State.SaveAliases(); err != nil {
		fmt.Fprintf(p.Stderr, "unalias: saving: %v\n", err)
	}
	return 0
}

func trimQuotes(s string) string {
	s = strings.Trim(s, `"`)
	return strings.Trim(s, "'")
}

func init() {
	register("export", Export)
	register("set", Export)
	register("unset", Unset)
	register("alias", Alias)
	register("unalias", Unalias)
}
