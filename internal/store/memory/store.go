// Package memory implementa repository.Store en proceso. Aplica los mismos
// unique constraints que el esquema Postgres y ofrece transacciones
// copy-on-write: WithTx trabaja sobre una copia del estado que sólo se
// publica si fn termina sin error.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

type state struct {
	users     []repository.User
	companies []repository.Company
	roles     []repository.CompanyRole
	members   []repository.CompanyUser
}

func (s *state) clone() *state {
	return &state{
		users:     slices.Clone(s.users),
		companies: slices.Clone(s.companies),
		roles:     slices.Clone(s.roles),
		members:   slices.Clone(s.members),
	}
}

// Store guarda todo en memoria. Las transacciones se serializan.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New crea un store vacío.
func New() *Store {
	return &Store{
		st:  &state{},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// view resuelve el estado sobre el que opera un repo: el publicado (con
// lock) o el borrador de una transacción (sin lock, ya lo tiene WithTx).
type view struct {
	s     *Store
	draft *state
}

func (v view) read(fn func(*state) error) error {
	if v.draft != nil {
		return fn(v.draft)
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return fn(v.s.st)
}

func (v view) write(fn func(*state) error) error {
	if v.draft != nil {
		return fn(v.draft)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func (s *Store) root() view { return view{s: s} }

func (s *Store) Users() repository.UserRepository { return &userRepo{v: s.root()} }
func (s *Store) Companies() repository.CompanyRepository {
	return &companyRepo{v: s.root()}
}
func (s *Store) Roles() repository.RoleRepository { return &roleRepo{v: s.root()} }
func (s *Store) Memberships() repository.MembershipRepository {
	return &membershipRepo{v: s.root()}
}

type txRepos struct{ v view }

func (t txRepos) Users() repository.UserRepository             { return &userRepo{v: t.v} }
func (t txRepos) Companies() repository.CompanyRepository      { return &companyRepo{v: t.v} }
func (t txRepos) Roles() repository.RoleRepository             { return &roleRepo{v: t.v} }
func (t txRepos) Memberships() repository.MembershipRepository { return &membershipRepo{v: t.v} }

// WithTx mantiene el lock de escritura durante fn. Llamar a s.Users() (en
// lugar de tx.Users()) dentro de fn bloquea.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	if err := fn(ctx, txRepos{v: view{s: s, draft: draft}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = draft
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Close descarta el estado.
func (s *Store) Close() error {
	s.mu.Lock()
	s.st = &state{}
	s.mu.Unlock()
	return nil
}
