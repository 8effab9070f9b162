// Package pg implementa repository.Store sobre PostgreSQL usando
// database/sql con el driver stdlib de pgx.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/store/dbx"
	migrations "github.com/ameyasuite/backend/migrations/postgres"
)

// Options ajustes del pool de conexiones.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store es el driver Postgres.
type Store struct {
	db *sql.DB
	repos
}

var _ repository.Store = (*Store)(nil)

// Open abre la conexión y verifica con Ping.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: open: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return New(db), nil
}

// New envuelve un *sql.DB existente (tests con sqlmock).
func New(db *sql.DB) *Store {
	return &Store{db: db, repos: repos{db: db}}
}

// DB expone la conexión para migraciones.
func (s *Store) DB() *sql.DB { return s.db }

// WithTx corre fn con repos ligados a una única *sql.Tx.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repos) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, repos{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// gooseUp permite reemplazar goose.UpContext en tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate aplica las migraciones embebidas pendientes.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("pg: goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("pg: migrate: %w", err)
	}
	return nil
}

// repos liga los repositorios a un DBTX (pool o transacción).
type repos struct{ db dbx.DBTX }

func (r repos) Users() repository.UserRepository             { return &userRepo{db: r.db} }
func (r repos) Companies() repository.CompanyRepository      { return &companyRepo{db: r.db} }
func (r repos) Roles() repository.RoleRepository             { return &roleRepo{db: r.db} }
func (r repos) Memberships() repository.MembershipRepository { return &membershipRepo{db: r.db} }
