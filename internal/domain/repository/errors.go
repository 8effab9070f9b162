package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: duplicado, constraint violation).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")
)

// Nombres de los unique constraints. Los drivers los reportan en
// ConstraintError.Constraint para que la capa de servicio pueda mapearlos.
const (
	ConstraintUserEmail         = "users_email_key"
	ConstraintCompanyName       = "companies_name_key"
	ConstraintCompanySlug       = "companies_slug_key"
	ConstraintRoleCompanyName   = "company_roles_company_id_name_key"
	ConstraintMemberUserCompany = "company_users_user_id_company_id_key"
)

// ConstraintError es una violación de unicidad reportada por el store.
type ConstraintError struct {
	Constraint string
	Detail     string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unique violation on %s: %s", e.Constraint, e.Detail)
	}
	return "unique violation on " + e.Constraint
}

// Unwrap expone ErrConflict y, si hay, la causa del driver.
func (e *ConstraintError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConflict, e.Err}
	}
	return []error{ErrConflict}
}

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// AsConstraint extrae el ConstraintError, si lo hay.
func AsConstraint(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
