package repository

import (
	"context"
	"time"
)

// User es el registro completo de identidad. Contiene secretos: nunca debe
// salir del proceso sin pasar por Sanitize.
type User struct {
	ID                     string
	Email                  string // siempre en minúsculas
	Password               *string
	FirstName              *string
	LastName               *string
	Name                   *string
	PasswordResetToken     *string
	PasswordResetExpires   *time.Time
	EmailVerificationToken *string
	EmailVerified          bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PublicUser es la vista sin secretos de un User.
type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     *string   `json:"firstName,omitempty"`
	LastName      *string   `json:"lastName,omitempty"`
	Name          *string   `json:"name,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// ThemeColor lo anota el login con el color de la compañía activa.
	ThemeColor *string `json:"themeColor,omitempty"`
}

// Sanitize devuelve una copia de u sin password ni tokens de reset o
// verificación. Sanitize(nil) == nil.
func Sanitize(u *User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     cloneString(u.FirstName),
		LastName:      cloneString(u.LastName),
		Name:          cloneString(u.Name),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// Sanitize sobre un PublicUser es idempotente: devuelve una copia.
func (p *PublicUser) Sanitize() *PublicUser {
	if p == nil {
		return nil
	}
	cp := *p
	cp.FirstName = cloneString(p.FirstName)
	cp.LastName = cloneString(p.LastName)
	cp.Name = cloneString(p.Name)
	cp.ThemeColor = cloneString(p.ThemeColor)
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Name         *string
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByEmail busca por el índice único de email.
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// FindFirstByEmail no asume unicidad: devuelve el registro más antiguo
	// con ese email. Retorna ErrNotFound si no hay ninguno.
	FindFirstByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// Create retorna *ConstraintError (ConstraintUserEmail) si el email ya existe.
	Create(ctx context.Context, in CreateUserInput) (*User, error)
}
