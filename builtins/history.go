package builtins

import "fmt"

// History prints the session history with 1-based line numbers.
func History(p *Proc) int {
	cmd := &SimpleCommand{
		Use:   "history",
		Short: "Display the command history.",
	}

	return cmd.Run(p, func() int {
		for i, line := range p.State.History() {
			fmt.Fprintf(p.Stdout, "%4d  %s\n", i+1, line)
		}
		return 0
	})
}

func init() {
	register("history", History)
}
