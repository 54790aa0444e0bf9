package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "flashcards", version)
	},
}
