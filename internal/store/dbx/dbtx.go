// Package dbx contiene las abstracciones mínimas sobre database/sql que
// comparten los repos Postgres: DBTX (cumplida por *sql.DB y *sql.Tx) y
// WithTx.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX es el subconjunto de database/sql que usan los repos.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx abre una transacción, ejecuta fn y hace commit si fn retorna nil.
// Ante error o panic hace rollback; el panic se relanza.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
