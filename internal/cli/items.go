package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Store a value under a key",
		Example: `  stash set user:1 alice --storage file --file-path data.json`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeStash(st, &err)

			return st.Set(cmd.Context(), args[0], args[1])
		},
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeStash(st, &err)

			v, ok, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm KEY",
		Aliases: []string{"remove"},
		Short:   "Remove a key (no error if it is absent)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeStash(st, &err)

			return st.Remove(cmd.Context(), args[0])
		},
	}
}

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all keys, sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeStash(st, &err)

			keys, err := st.Keys(cmd.Context())
			if err != nil {
				return err
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, _, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeStash(st, &err)

			return st.Clear(cmd.Context())
		},
	}
}

type closer interface{ Close() error }

// closeStash closes c and reports its error through errp unless the command
// already failed.
func closeStash(c closer, errp *error) {
	if cerr := c.Close(); cerr != nil && *errp == nil {
		*errp = cerr
	}
}
