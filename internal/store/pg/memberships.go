package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/store/dbx"
)

type membershipRepo struct{ db dbx.DBTX }

const memberColumns = `id, user_id, company_id, first_name, last_name, status, is_active, role_id, joined_at`

func scanMember(row rowScanner) (*repository.CompanyUser, error) {
	var (
		m      repository.CompanyUser
		status string
	)
	err := row.Scan(&m.ID, &m.UserID, &m.CompanyID, &m.FirstName, &m.LastName, &status, &m.IsActive, &m.RoleID, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	m.Status = repository.MemberStatus(status)
	return &m, nil
}

func (r *membershipRepo) Create(ctx context.Context, in repository.CreateMembershipInput) (*repository.CompanyUser, error) {
	const q = `
		INSERT INTO company_users (id, user_id, company_id, first_name, last_name, status, is_active, role_id, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	m := &repository.CompanyUser{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Status:    in.Status,
		IsActive:  in.IsActive,
		RoleID:    in.RoleID,
		JoinedAt:  in.JoinedAt.UTC(),
	}
	if !m.Status.Valid() {
		return nil, repository.ErrInvalidInput
	}

	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.UserID, m.CompanyID, m.FirstName, m.LastName, string(m.Status), m.IsActive, m.RoleID, m.JoinedAt)
	if err != nil {
		return nil, mapErr("memberships.create", err)
	}
	return m, nil
}

func (r *membershipRepo) FirstActiveByUser(ctx context.Context, userID string) (*repository.CompanyUser, error) {
	const q = `SELECT ` + memberColumns + `
		FROM company_users
		WHERE user_id = $1 AND is_active
		ORDER BY joined_at, id
		LIMIT 1`

	m, err := scanMember(r.db.QueryRowContext(ctx, q, userID))
	if err != nil {
		return nil, mapErr("memberships.first_active", err)
	}
	return m, nil
}

func (r *membershipRepo) ListByCompany(ctx context.Context, companyID string) ([]repository.CompanyUser, error) {
	const q = `SELECT ` + memberColumns + ` FROM company_users WHERE company_id = $1 ORDER BY joined_at, id`

	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, mapErr("memberships.list", err)
	}
	defer rows.Close()

	var out []repository.CompanyUser
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, mapErr("memberships.list", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("memberships.list", err)
	}
	return out, nil
}
