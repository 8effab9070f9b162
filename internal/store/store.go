// Package store abre el repository.Store configurado.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/store/memory"
	"github.com/ameyasuite/backend/internal/store/pg"
)

type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// Open devuelve el store del driver pedido. Con postgres y AutoMigrate
// aplica las migraciones embebidas antes de devolverlo.
func Open(ctx context.Context, cfg Config) (repository.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory", "":
		return memory.New(), nil

	case "postgres", "pg", "postgresql":
		s, err := pg.Open(ctx, cfg.DSN, pg.Options{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx, s.DB()); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return s, nil

	default:
		return nil, fmt.Errorf("store: unsupported driver: %s", cfg.Driver)
	}
}
