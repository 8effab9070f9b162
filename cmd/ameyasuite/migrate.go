package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/store/pg"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones Postgres pendientes (DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return errors.New("migrate: DATABASE_URL (storage.dsn) is required")
			}
			ctx := cmd.Context()

			st, err := pg.Open(ctx, cfg.Storage.DSN, pg.Options{MaxOpenConns: 2})
			if err != nil {
				return err
			}
			defer st.Close()

			if err := pg.Migrate(ctx, st.DB()); err != nil {
				return err
			}
			logger.L().Info("migrations applied")
			return nil
		},
	}
}
