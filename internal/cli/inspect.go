package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show hash table occupancy for the stored data",
		Long: `Loads every entry of the configured backend into a hash table of
--hashtable-size buckets and reports its size, load factor and chain lengths.
The hashtable backend reports its live table instead.`,
		Example: `  stash inspect --storage file --file-path data.json
  stash inspect --storage badger --badger-dir ./data --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, cfg, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeStash(st, &err)

			stats, err := st.TableStats(cmd.Context(), cfg.Storage.HashTable.InitialSize)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			fmt.Fprintln(out, "--- Hash Table ---")
			fmt.Fprintf(out, "  Buckets:        %d (initial %d)\n", stats.Size, stats.InitialSize)
			fmt.Fprintf(out, "  Entries:        %d\n", stats.Count)
			fmt.Fprintf(out, "  Load factor:    %.2f\n", stats.LoadFactor)
			fmt.Fprintf(out, "  Empty buckets:  %d\n", stats.EmptyBuckets)
			fmt.Fprintf(out, "  Longest chain:  %d\n", stats.LongestChain)

			if len(stats.ChainLengths) > 0 {
				lengths := make([]int, 0, len(stats.ChainLengths))
				for n := range stats.ChainLengths {
					lengths = append(lengths, n)
				}
				sort.Ints(lengths)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "  Chains:")
				for _, n := range lengths {
					fmt.Fprintf(out, "    length %d: %d buckets\n", n, stats.ChainLengths[n])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output stats as JSON")

	return cmd
}
