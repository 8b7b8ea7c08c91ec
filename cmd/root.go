// Package cmd wires the gsh command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gshell/gsh/core/config"
	"github.com/gshell/gsh/core/interp"
	"github.com/gshell/gsh/core/jobs"
	"github.com/gshell/gsh/core/shell"
	"github.com/gshell/gsh/core/state"
)

var (
	cfgPath string
	noRC    bool
	command string

	// exitCode is what main passes to os.Exit.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "gsh [script]",
	Short: "An interactive command shell",
	Long: `gsh is an interactive shell with pipelines, job control, aliases,
user functions, glob patterns and arithmetic expansion.

With no arguments it reads commands interactively. Given a script
file it evaluates the file and exits; -c evaluates a single command.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := afero.NewOsFs()
		st := state.New(fs)

		cfg, err := loadConfig(fs, st.Home())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		switch {
		case command != "":
			exitCode = evalAndExit(st, cfg, command)
		case len(args) == 1:
			exitCode, err = runScript(st, cfg, args[0])
			if err != nil {
				return err
			}
		default:
			sh, err := shell.New(shell.Options{
				Config: cfg,
				State:  st,
				SkipRC: noRC,
			})
			if err != nil {
				return err
			}
			exitCode = sh.Run()
		}
		return nil
	},
}

func loadConfig(fs afero.Fs, home string) (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = filepath.Join(home, ".config", "gsh", config.Name)
	}
	return config.Load(fs, path)
}

// evalAndExit runs one command line non-interactively (-c).
func evalAndExit(st *state.State, cfg *config.Config, line string) int {
	st.SetHistoryMax(cfg.HistorySize)
	exec := interp.New(st, jobs.NewTable(), os.Stdin, os.Stdout, os.Stderr)

	code := exec.EvalLine(line)
	if requested, ok := st.ExitRequested(); ok {
		return requested
	}
	return code
}

// runScript evaluates a script file line by line and exits.
func runScript(st *state.State, cfg *config.Config, path string) (int, error) {
	data, err := afero.ReadFile(st.FS(), path)
	if err != nil {
		return 0, fmt.Errorf("reading script: %w", err)
	}

	st.SetHistoryMax(cfg.HistorySize)
	exec := interp.New(st, jobs.NewTable(), os.Stdin, os.Stdout, os.Stderr)
	return shell.EvalLines(exec, string(data)), nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gsh: %v\n", err)
		return 1
	}
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.yaml (default ~/.config/gsh/config.yaml)")
	rootCmd.Flags().BoolVar(&noRC, "norc", false, "skip the rc file at startup")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "evaluate a single command and exit")
}
