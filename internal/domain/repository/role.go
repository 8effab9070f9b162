package repository

import (
	"context"
	"time"
)

// CompanyRole es un rol definido dentro de una compañía. Permissions son
// strings opacos; "*" no se expande.
type CompanyRole struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateRoleInput contiene los datos para crear un rol.
type CreateRoleInput struct {
	CompanyID   string
	Name        string
	Description string
	Color       string
	Permissions []string
}

// RoleRepository define operaciones sobre roles de compañía.
type RoleRepository interface {
	// Create retorna *ConstraintError (ConstraintRoleCompanyName) si el
	// nombre ya existe en la compañía.
	Create(ctx context.Context, in CreateRoleInput) (*CompanyRole, error)

	// ListByCompany en orden de creación.
	ListByCompany(ctx context.Context, companyID string) ([]CompanyRole, error)
}
