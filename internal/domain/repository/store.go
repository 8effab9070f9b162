package repository

import (
	"context"
	"errors"
)

// ErrNotUnique lo devuelve una búsqueda por clave única que encontró más de
// un registro (constraint ausente en la base).
var ErrNotUnique = errors.New("unique lookup matched more than one record")

// Repos agrupa los repositorios del dominio.
type Repos interface {
	Users() UserRepository
	Companies() CompanyRepository
	Roles() RoleRepository
	Memberships() MembershipRepository
}

// Store es el punto de entrada de persistencia.
type Store interface {
	Repos

	// WithTx ejecuta fn dentro de una transacción: commit si fn retorna nil,
	// rollback en cualquier otro caso (incluido panic). Dentro de fn sólo
	// deben usarse los repos recibidos.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repos) error) error

	Ping(ctx context.Context) error
	Close() error
}
