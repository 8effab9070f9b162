package repository

import (
	"context"
	"time"
)

// DefaultThemeColor es el color de marca por defecto de una compañía.
const DefaultThemeColor = "#3B82F6"

// Company es el tenant.
type Company struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	ThemeColor string    `json:"themeColor"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Address    *string   `json:"address,omitempty"`
	City       *string   `json:"city,omitempty"`
	State      *string   `json:"state,omitempty"`
	ZipCode    *string   `json:"zipCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Metadatos de suscripción: sólo los escribe el seed.
	SubscriptionPlan   *string `json:"subscriptionPlan,omitempty"`
	SubscriptionStatus *string `json:"subscriptionStatus,omitempty"`
	MaxUsers           *int    `json:"maxUsers,omitempty"`
}

// CreateCompanyInput contiene los datos para crear una compañía.
// ThemeColor vacío usa DefaultThemeColor.
type CreateCompanyInput struct {
	Name       string
	Slug       string
	ThemeColor string
	Phone      *string
	Email      *string
	Address    *string
	City       *string
	State      *string
	ZipCode    *string
}

// SubscriptionInput actualiza los metadatos de suscripción.
type SubscriptionInput struct {
	Plan     string
	Status   string
	MaxUsers int
}

// CompanyRepository define operaciones sobre compañías.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*Company, error)

	// GetByName compara el nombre exacto (ya recortado por el caller).
	GetByName(ctx context.Context, name string) (*Company, error)

	GetBySlug(ctx context.Context, slug string) (*Company, error)

	// Create retorna *ConstraintError (ConstraintCompanyName o
	// ConstraintCompanySlug) ante duplicados.
	Create(ctx context.Context, in CreateCompanyInput) (*Company, error)

	UpdateSubscription(ctx context.Context, id string, in SubscriptionInput) error
}
