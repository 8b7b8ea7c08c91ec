package shell

import (
	"os"
	"strings"

	"github.com/fatih/color"
)

const defaultPrompt = `\u@\h:\w\$ `

// Prompt renders the PS1 template: \u user, \h host, \w working
// directory with home collapsed to ~, \$ an exit-status indicator
// colored by the last command's result.
func (s *Shell) Prompt() string {
	prompt := s.State.Getenv("PS1")
	if prompt == "" {
		prompt = defaultPrompt
	}

	prompt = strings.ReplaceAll(prompt, `\u`, s.username())
	prompt = strings.ReplaceAll(prompt, `\h`, s.hostname())
	prompt = strings.ReplaceAll(prompt, `\w`, s.promptDir())
	prompt = strings.ReplaceAll(prompt, `\$`, s.statusIndicator())

	return prompt
}

func (s *Shell) username() string {
	if user := s.State.Getenv("USER"); user != "" {
		return user
	}
	return "gsh"
}

func (s *Shell) hostname() string {
	if host := s.State.Getenv("HOSTNAME"); host != "" {
		return host
	}
	host, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return host
}

func (s *Shell) promptDir() string {
	pwd := s.State.Cwd()
	home := s.State.Home()
	if home != "/" {
		if pwd == home {
			return "~"
		}
		if rest, ok := strings.CutPrefix(pwd, home+"/"); ok {
			return "~/" + rest
		}
	}
	return pwd
}

func (s *Shell) statusIndicator() string {
	if s.State.LastExit() == 0 {
		return color.GreenString("$")
	}
	return color.RedString("$")
}
