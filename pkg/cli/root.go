package cli

import (
	internalcli "github.com/SmitUplenchwar2687/Stash/internal/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the public Stash root command for embedding.
func NewRootCmd() *cobra.Command {
	return internalcli.NewRootCmd()
}
