package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return New(db), mock
}

var userCols = []string{
	"id", "email", "password", "first_name", "last_name", "name",
	"password_reset_token", "password_reset_expires", "email_verification_token",
	"email_verified", "created_at", "updated_at",
}

func userRow(rows *sqlmock.Rows, id, email string) *sqlmock.Rows {
	ts := time.Unix(1700000000, 0).UTC()
	return rows.AddRow(id, email, "$2a$10$hash", "Ada", nil, nil, "reset", nil, nil, false, ts, ts)
}

func TestUsers_GetByEmail_Found(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE email = \$1 LIMIT 2`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(sqlmock.NewRows(userCols), "u1", "a@x.com"))

	u, err := s.Users().GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	require.NotNil(t, u.Password)
	assert.Equal(t, "$2a$10$hash", *u.Password)
	require.NotNil(t, u.FirstName)
	assert.Nil(t, u.LastName)
}

func TestUsers_GetByEmail_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := s.Users().GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_GetByEmail_DuplicateRows(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows(userCols)
	userRow(rows, "u1", "a@x.com")
	userRow(rows, "u2", "a@x.com")
	mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE email = \$1`).WillReturnRows(rows)

	_, err := s.Users().GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotUnique)
}

func TestUsers_FindFirstByEmail_OrdersByCreation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE email = \$1 ORDER BY created_at, id LIMIT 1`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(sqlmock.NewRows(userCols), "u1", "a@x.com"))

	u, err := s.Users().FindFirstByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestUsers_Create_UniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)INSERT INTO users`).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: repository.ConstraintUserEmail,
			Detail:         "Key (email)=(a@x.com) already exists.",
		})

	_, err := s.Users().Create(context.Background(), repository.CreateUserInput{Email: "a@x.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, repository.IsConflict(err))

	ce, ok := repository.AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintUserEmail, ce.Constraint)
	assert.Contains(t, ce.Detail, "already exists")
}

func TestUsers_Create_Success(t *testing.T) {
	s, mock := newMockStore(t)

	first := "Ada"
	mock.ExpectExec(`(?s)INSERT INTO users \(id, email, password, first_name, last_name, name, created_at, updated_at\)`).
		WithArgs(sqlmock.AnyArg(), "a@x.com", "h", "Ada", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := s.Users().Create(context.Background(), repository.CreateUserInput{
		Email: "a@x.com", PasswordHash: "h", FirstName: &first,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestUsers_GetByID_DriverErrorWrapped(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.Users().GetByID(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users.get_by_id")
	assert.False(t, repository.IsNotFound(err))
}

func TestRoles_ListByCompany_DecodesPermissions(t *testing.T) {
	s, mock := newMockStore(t)

	ts := time.Unix(1700000000, 0).UTC()
	rows := sqlmock.NewRows([]string{"id", "company_id", "name", "description", "color", "permissions", "created_at"}).
		AddRow("r1", "c1", "Admin", "all", "#EF4444", []byte(`["*"]`), ts).
		AddRow("r2", "c1", "Manager", "team", "#F59E0B", []byte(`["read","write","manage_team"]`), ts)
	mock.ExpectQuery(`(?s)FROM company_roles WHERE company_id = \$1`).WithArgs("c1").WillReturnRows(rows)

	roles, err := s.Roles().ListByCompany(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, []string{"*"}, roles[0].Permissions)
	assert.Equal(t, []string{"read", "write", "manage_team"}, roles[1].Permissions)
}

func TestMemberships_FirstActiveByUser(t *testing.T) {
	s, mock := newMockStore(t)

	ts := time.Unix(1700000000, 0).UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "company_id", "first_name", "last_name", "status", "is_active", "role_id", "joined_at"}).
		AddRow("m1", "u1", "c1", nil, nil, "ACTIVE", true, "r1", ts)
	mock.ExpectQuery(`(?s)FROM company_users\s+WHERE user_id = \$1 AND is_active\s+ORDER BY joined_at, id\s+LIMIT 1`).
		WithArgs("u1").
		WillReturnRows(rows)

	m, err := s.Memberships().FirstActiveByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, repository.MemberActive, m.Status)
	require.NotNil(t, m.RoleID)
	assert.Equal(t, "r1", *m.RoleID)
}

func TestMemberships_FirstActiveByUser_None(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)FROM company_users`).WithArgs("u1").WillReturnError(sql.ErrNoRows)

	_, err := s.Memberships().FirstActiveByUser(context.Background(), "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCompanies_UpdateSubscription_Missing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)UPDATE companies`).
		WithArgs("c1", "pro", "active", 50).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Companies().UpdateSubscription(context.Background(), "c1", repository.SubscriptionInput{Plan: "pro", Status: "active", MaxUsers: 50})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithTx_CommitsAndRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO companies`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		_, err := tx.Companies().Create(ctx, repository.CreateCompanyInput{Name: "Acme", Slug: "acme"})
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO companies`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO company_roles`).WillReturnError(&pgconn.PgError{
		Code: "23505", ConstraintName: repository.ConstraintRoleCompanyName,
	})
	mock.ExpectRollback()

	err = s.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		c, err := tx.Companies().Create(ctx, repository.CreateCompanyInput{Name: "Beta", Slug: "beta"})
		if err != nil {
			return err
		}
		_, err = tx.Roles().Create(ctx, repository.CreateRoleInput{CompanyID: c.ID, Name: "Admin", Permissions: []string{"*"}})
		return err
	})
	ce, ok := repository.AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintRoleCompanyName, ce.Constraint)
}

func TestMigrate_UsesEmbeddedDir(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.ErrorContains(t, Migrate(context.Background(), nil), "pg: migrate")
}
