package auth

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailInUse         = errors.New("email already in use")
	ErrCompanyNameTaken   = errors.New("company name already taken")
	ErrRoleCreationFailed = errors.New("role creation failed")
	ErrPasswordTooLong    = errors.New("password too long")
)

// RoleCreationError detalla por qué falló la creación de un rol. Unwrap
// expone ErrRoleCreationFailed y la causa.
type RoleCreationError struct {
	Role   string
	Detail string // constraint o mensaje de la causa
	Err    error
}

func (e *RoleCreationError) Error() string {
	return fmt.Sprintf("role creation failed (%s): %s", e.Role, e.Detail)
}

func (e *RoleCreationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRoleCreationFailed}
	}
	return []error{ErrRoleCreationFailed, e.Err}
}
