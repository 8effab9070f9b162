package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ameyasuite/backend/internal/http/server"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP (SIGINT/SIGTERM para apagarlo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := opts.cfg
			logger.L().Info("starting",
				logger.String("env", cfg.App.Env),
				logger.String("addr", cfg.Addr()),
				logger.String("storage", cfg.Storage.Driver),
				logger.String("cache", cfg.Cache.Driver),
			)
			return server.Run(ctx, cfg)
		},
	}
}
