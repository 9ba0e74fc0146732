package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Stash/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr        string
		journalPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Stash HTTP server",
		Long: `Starts an HTTP server exposing the store.

Endpoints:
  GET    /                  Server info and current time
  GET    /health            Health check
  GET    /api/keys          All keys, sorted
  GET    /api/items/{key}   Read a value
  HEAD   /api/items/{key}   Check that a key exists
  PUT    /api/items/{key}   Store {"value": "..."}
  DELETE /api/items/{key}   Remove a key
  DELETE /api/items         Remove every key
  WS     /ws                Change events as they happen`,
		Example: `  stash serve
  stash serve --addr :9090 --storage badger --badger-dir ./data
  stash serve --storage redis --redis-host localhost:6379
  stash serve --journal changes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("journal") {
				cfg.Journal.Path = journalPath
			}

			st, logger, err := openStash(cmd, cfg)
			if err != nil {
				return err
			}

			srv := server.New(cfg.Server.Addr, st, server.Options{
				Hub:    server.NewHub(logger.WithField("component", "ws")),
				Logger: logger,
			})

			logger.WithField("backend", cfg.Storage.Backend).Infof("API: http://localhost%s/api/items/{key}", cfg.Server.Addr)

			// Graceful shutdown on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				st.Close()
				return err
			case <-ctx.Done():
				logger.Info("shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				shutdownErr := srv.Shutdown(shutdownCtx)
				if j := st.Journal(); j != nil {
					logger.Infof("exporting %d journal entries to %s", j.Len(), cfg.Journal.Path)
				}
				if err := st.Close(); err != nil {
					return err
				}
				return shutdownErr
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&journalPath, "journal", "", "record changes to JSON file (exported on shutdown)")

	return cmd
}
