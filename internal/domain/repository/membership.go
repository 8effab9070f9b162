package repository

import (
	"context"
	"time"
)

// MemberStatus estado de una membresía.
type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberInactive  MemberStatus = "INACTIVE"
	MemberInvited   MemberStatus = "INVITED"
	MemberSuspended MemberStatus = "SUSPENDED"
)

// Valid reporta si s es uno de los estados conocidos.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberInvited, MemberSuspended:
		return true
	}
	return false
}

// CompanyUser vincula un User a una Company. IsActive es independiente de
// Status.
type CompanyUser struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	CompanyID string       `json:"companyId"`
	FirstName *string      `json:"firstName,omitempty"`
	LastName  *string      `json:"lastName,omitempty"`
	Status    MemberStatus `json:"status"`
	IsActive  bool         `json:"isActive"`
	RoleID    *string      `json:"roleId,omitempty"`
	JoinedAt  time.Time    `json:"joinedAt"`
}

// CreateMembershipInput contiene los datos para crear una membresía.
type CreateMembershipInput struct {
	UserID    string
	CompanyID string
	FirstName *string
	LastName  *string
	Status    MemberStatus
	IsActive  bool
	RoleID    *string
	JoinedAt  time.Time
}

// MembershipRepository define operaciones sobre membresías.
type MembershipRepository interface {
	// Create retorna *ConstraintError (ConstraintMemberUserCompany) si el
	// usuario ya pertenece a la compañía.
	Create(ctx context.Context, in CreateMembershipInput) (*CompanyUser, error)

	// FirstActiveByUser devuelve la membresía con isActive=true más antigua
	// por joinedAt (desempate por id). ErrNotFound si no hay ninguna.
	FirstActiveByUser(ctx context.Context, userID string) (*CompanyUser, error)

	ListByCompany(ctx context.Context, companyID string) ([]CompanyUser, error)
}
