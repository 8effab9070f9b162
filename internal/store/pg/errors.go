package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

const uniqueViolation = "23505"

// mapErr traduce errores del driver a errores de dominio.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &repository.ConstraintError{
			Constraint: pgErr.ConstraintName,
			Detail:     pgErr.Detail,
			Err:        err,
		}
	}
	return fmt.Errorf("pg: %s: %w", op, err)
}
