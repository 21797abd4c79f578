package cli

import (
	"fmt"

	"github.com/robbyt/go-polybridge/engines/registry"
	"github.com/robbyt/go-polybridge/engines/types"
	"github.com/spf13/cobra"
)

func newEnginesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the available scripting languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.NewDefault(flags.handler(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range reg.Languages() {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintf(out, "%s (requires --wasm)\n", types.Extism)
			return nil
		},
	}
}
