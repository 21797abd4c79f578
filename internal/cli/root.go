// Package cli implements the polybridge command line: it runs one bridge
// invocation against an in-memory stack and prints the resulting state.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	debug   bool
	noColor bool
}

func (g *globalFlags) handler(cmd *cobra.Command) slog.Handler {
	return newLogHandler(cmd.ErrOrStderr(), g.debug, g.noColor)
}

// NewRootCommand builds the polybridge command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "polybridge",
		Short:         "Evaluate inline scripts in other languages as stack operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newRunCommand(flags), newEnginesCommand(flags))
	return rootCmd
}
