// Command ameyasuite corre el backend de Ameya Suite y sus tareas de
// mantenimiento (migraciones y seed).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ameyasuite/backend/internal/config"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

// version se setea con -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	envFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ameyasuite",
		Short:         "Backend de Ameya Suite (auth por sesión, compañías y cache)",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env es opcional; el entorno del proceso tiene prioridad
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: cfg.App.ServiceName,
				Version:     version,
			})
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", envOr("CONFIG_PATH", "configs/config.yaml"),
		"Path al YAML de configuración (opcional; env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Archivo .env a cargar si existe")

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts), newSeedCmd(opts))
	return root
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
