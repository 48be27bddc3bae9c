package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"flickvault/internal/auth"
	"flickvault/internal/library"
	"flickvault/internal/logging"
	"flickvault/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			// One serving process per data directory.
			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another flickvault instance is already serving %s", cfg.Paths.DataDir)
			}
			defer func() { _ = lock.Unlock() }()

			store, err := library.Open(cfg)
			if err != nil {
				logger.Error("open library store", logging.Error(err))
				return err
			}
			defer store.Close()

			tokens, err := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
			if err != nil {
				return err
			}

			srv := server.New(cfg, store, tokens, logger)
			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			defer srv.Stop()

			<-signalCtx.Done()
			logger.Info("flickvault shutting down")
			return nil
		},
	}
}
