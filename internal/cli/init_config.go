package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Stash/internal/config"
)

func newInitConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "init-config",
		Short:   "Generate an example config JSON file",
		Example: `  stash init-config --output stash.config.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "stash.config.json"
			}
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "stash.config.json", "output file path")

	return cmd
}
