// Package cli implements the scoreboard command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the scoreboard CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoreboard",
		Short: "Replay match scripts through a reactive store",
		Long:  "Scoreboard drives a single-state store with scripted actions and prints the board after every change.",
	}

	cmd.AddCommand(NewRunCommand())

	return cmd
}
