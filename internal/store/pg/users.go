package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/store/dbx"
)

type userRepo struct{ db dbx.DBTX }

const userColumns = `id, email, password, first_name, last_name, name,
       password_reset_token, password_reset_expires, email_verification_token,
       email_verified, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Name,
		&u.PasswordResetToken, &u.PasswordResetExpires, &u.EmailVerificationToken,
		&u.EmailVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail trae hasta dos filas para detectar un índice único ausente.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 2`

	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, mapErr("users.get_by_email", err)
	}
	defer rows.Close()

	var found *repository.User
	for rows.Next() {
		if found != nil {
			return nil, repository.ErrNotUnique
		}
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr("users.get_by_email", err)
		}
		found = u
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("users.get_by_email", err)
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *userRepo) FindFirstByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY created_at, id LIMIT 1`

	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, mapErr("users.find_first_by_email", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapErr("users.get_by_id", err)
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	const q = `
		INSERT INTO users (id, email, password, first_name, last_name, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	now := time.Now().UTC()
	u := &repository.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.PasswordHash != "" {
		h := in.PasswordHash
		u.Password = &h
	}

	if _, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.Name, now); err != nil {
		return nil, mapErr("users.create", err)
	}
	return u, nil
}
