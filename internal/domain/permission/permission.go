// Package permission expone los permisos de un rol como un conjunto opaco.
// No hay evaluación: "*" es un string más y nada aquí decide acceso.
package permission

import (
	"context"
	"slices"
)

// Wildcard se guarda literal en el rol Admin.
const Wildcard = "*"

// CapabilitySet conserva el orden en que se declararon los permisos.
type CapabilitySet struct {
	perms []string
}

// New copia perms, descartando vacíos y duplicados.
func New(perms ...string) CapabilitySet {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return CapabilitySet{perms: out}
}

// Permissions devuelve una copia.
func (c CapabilitySet) Permissions() []string {
	return slices.Clone(c.perms)
}

// Contains es pertenencia literal: Contains("read") es false para un set
// que sólo tiene "*".
func (c CapabilitySet) Contains(raw string) bool {
	return slices.Contains(c.perms, raw)
}

func (c CapabilitySet) Len() int { return len(c.perms) }

// Authorizer es el punto de extensión para un componente de decisión
// futuro. No hay implementación en este módulo.
type Authorizer interface {
	Authorize(ctx context.Context, caps CapabilitySet, action string) (bool, error)
}

// RoleDef es la plantilla de un rol sembrado al crear una compañía.
type RoleDef struct {
	Name        string
	Description string
	Color       string
	Caps        CapabilitySet
}

// DefaultRoles devuelve, en orden, Admin, Manager y User.
func DefaultRoles() []RoleDef {
	return []RoleDef{
		{
			Name:        "Admin",
			Description: "Full access to all company resources",
			Color:       "#EF4444",
			Caps:        New(Wildcard),
		},
		{
			Name:        "Manager",
			Description: "Can manage team members and company data",
			Color:       "#F59E0B",
			Caps:        New("read", "write", "manage_team"),
		},
		{
			Name:        "User",
			Description: "Standard access to company resources",
			Color:       "#10B981",
			Caps:        New("read", "write"),
		},
	}
}
