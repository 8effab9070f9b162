package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/store/dbx"
)

type companyRepo struct{ db dbx.DBTX }

const companyColumns = `id, name, slug, theme_color, phone, email, address, city, state, zip_code,
       subscription_plan, subscription_status, max_users, created_at, updated_at`

func scanCompany(row rowScanner) (*repository.Company, error) {
	var c repository.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.ThemeColor, &c.Phone, &c.Email, &c.Address, &c.City, &c.State, &c.ZipCode,
		&c.SubscriptionPlan, &c.SubscriptionStatus, &c.MaxUsers, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) getBy(ctx context.Context, op, col, val string) (*repository.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies WHERE ` + col + ` = $1`
	c, err := scanCompany(r.db.QueryRowContext(ctx, q, val))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return c, nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*repository.Company, error) {
	return r.getBy(ctx, "companies.get_by_id", "id", id)
}

func (r *companyRepo) GetByName(ctx context.Context, name string) (*repository.Company, error) {
	return r.getBy(ctx, "companies.get_by_name", "name", name)
}

func (r *companyRepo) GetBySlug(ctx context.Context, slug string) (*repository.Company, error) {
	return r.getBy(ctx, "companies.get_by_slug", "slug", slug)
}

func (r *companyRepo) Create(ctx context.Context, in repository.CreateCompanyInput) (*repository.Company, error) {
	const q = `
		INSERT INTO companies (id, name, slug, theme_color, phone, email, address, city, state, zip_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`
	now := time.Now().UTC()
	c := &repository.Company{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Slug:       in.Slug,
		ThemeColor: in.ThemeColor,
		Phone:      in.Phone,
		Email:      in.Email,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if c.ThemeColor == "" {
		c.ThemeColor = repository.DefaultThemeColor
	}

	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.Name, c.Slug, c.ThemeColor, c.Phone, c.Email, c.Address, c.City, c.State, c.ZipCode, now)
	if err != nil {
		return nil, mapErr("companies.create", err)
	}
	return c, nil
}

func (r *companyRepo) UpdateSubscription(ctx context.Context, id string, in repository.SubscriptionInput) error {
	const q = `
		UPDATE companies
		SET subscription_plan = $2, subscription_status = $3, max_users = $4, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, in.Plan, in.Status, in.MaxUsers)
	if err != nil {
		return mapErr("companies.update_subscription", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
