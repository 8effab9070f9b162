package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/store/dbx"
)

type roleRepo struct{ db dbx.DBTX }

// Permisos en JSONB para conservar el orden declarado.
func (r *roleRepo) Create(ctx context.Context, in repository.CreateRoleInput) (*repository.CompanyRole, error) {
	const q = `
		INSERT INTO company_roles (id, company_id, name, description, color, permissions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	perms := in.Permissions
	if perms == nil {
		perms = []string{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return nil, fmt.Errorf("pg: roles.create: encode permissions: %w", err)
	}

	role := &repository.CompanyRole{
		ID:          uuid.NewString(),
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Permissions: append([]string(nil), perms...),
		CreatedAt:   time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, q,
		role.ID, role.CompanyID, role.Name, role.Description, role.Color, string(raw), role.CreatedAt)
	if err != nil {
		return nil, mapErr("roles.create", err)
	}
	return role, nil
}

func (r *roleRepo) ListByCompany(ctx context.Context, companyID string) ([]repository.CompanyRole, error) {
	const q = `
		SELECT id, company_id, name, description, color, permissions, created_at
		FROM company_roles WHERE company_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, mapErr("roles.list", err)
	}
	defer rows.Close()

	var out []repository.CompanyRole
	for rows.Next() {
		var (
			role repository.CompanyRole
			raw  []byte
		)
		if err := rows.Scan(&role.ID, &role.CompanyID, &role.Name, &role.Description, &role.Color, &raw, &role.CreatedAt); err != nil {
			return nil, mapErr("roles.list", err)
		}
		if err := json.Unmarshal(raw, &role.Permissions); err != nil {
			return nil, fmt.Errorf("pg: roles.list: decode permissions: %w", err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("roles.list", err)
	}
	return out, nil
}
