package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Stash/internal/config"
	"github.com/SmitUplenchwar2687/Stash/internal/logging"
	"github.com/SmitUplenchwar2687/Stash/internal/stash"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

type rootOptions struct {
	configPath string
	logLevel   string
	storage    storageOptions
}

// NewRootCmd creates the root stash command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{storage: defaultStorageOptions()}

	root := &cobra.Command{
		Use:   "stash",
		Short: "Key-value store backed by a self-resizing hash table",
		Long: `Stash is a key-value store built on a chained hash table that grows and
shrinks with its load factor. The same store can sit on an in-process table,
a JSON file, Badger or Redis, and is reachable from this CLI or over HTTP.

Backends other than file, badger and redis live only as long as the process,
so one-shot commands against them start from an empty store.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	opts.storage.addFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(opts),
		newSetCmd(opts),
		newGetCmd(opts),
		newRmCmd(opts),
		newKeysCmd(opts),
		newClearCmd(opts),
		newInspectCmd(opts),
		newReplayCmd(opts),
		newInitConfigCmd(),
	)

	return root
}

// loadConfig resolves the effective config: defaults, then the config file,
// then any flags set explicitly on the command line.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	o.storage.applyConfigIfUnset(cmd, &cfg.Storage)
	if err := o.storage.normalize(); err != nil {
		return cfg, err
	}
	cfg.Storage = o.storage.toConfig()

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// open loads config and opens the store for a one-shot command. The journal
// is left off so a one-shot command never overwrites a server's journal file.
func (o *rootOptions) open(cmd *cobra.Command) (*stash.Stash, config.Config, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	cfg.Journal.Path = ""

	if !storage.Persistent(cfg.Storage.Backend) {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"warning: the %q backend lives only inside this process; nothing is kept after stash exits (use --storage file, badger or redis)\n",
			cfg.Storage.Backend)
	}

	st, _, err := openStash(cmd, cfg)
	return st, cfg, err
}

// openStash installs logging from cfg and opens the store it describes.
func openStash(cmd *cobra.Command, cfg config.Config) (*stash.Stash, *logrus.Logger, error) {
	logger, err := logging.Install(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	st, err := stash.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return st, logger, nil
}
