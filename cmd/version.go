package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the build with -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gsh version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gsh %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
