package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

func seedCompany(t *testing.T, s *Store, name, slug string) *repository.Company {
	t.Helper()
	c, err := s.Companies().Create(context.Background(), repository.CreateCompanyInput{Name: name, Slug: slug})
	require.NoError(t, err)
	return c
}

func TestUsers_UniqueEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, repository.CreateUserInput{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotNil(t, u.Password)

	_, err = s.Users().Create(ctx, repository.CreateUserInput{Email: "a@x.com"})
	ce, ok := repository.AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintUserEmail, ce.Constraint)

	got, err := s.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.Users().FindFirstByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCompanies_DefaultsAndConstraints(t *testing.T) {
	s := New()
	ctx := context.Background()

	c := seedCompany(t, s, "Acme Inc", "acme-inc")
	assert.Equal(t, repository.DefaultThemeColor, c.ThemeColor)

	_, err := s.Companies().Create(ctx, repository.CreateCompanyInput{Name: "Acme Inc", Slug: "other"})
	ce, ok := repository.AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintCompanyName, ce.Constraint)

	_, err = s.Companies().Create(ctx, repository.CreateCompanyInput{Name: "ACME inc", Slug: "acme-inc"})
	ce, ok = repository.AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintCompanySlug, ce.Constraint)

	require.NoError(t, s.Companies().UpdateSubscription(ctx, c.ID, repository.SubscriptionInput{Plan: "pro", Status: "active", MaxUsers: 25}))
	got, err := s.Companies().GetBySlug(ctx, "acme-inc")
	require.NoError(t, err)
	require.NotNil(t, got.MaxUsers)
	assert.Equal(t, 25, *got.MaxUsers)
}

func TestRoles_UniquePerCompany(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := seedCompany(t, s, "A", "a")
	b := seedCompany(t, s, "B", "b")

	_, err := s.Roles().Create(ctx, repository.CreateRoleInput{CompanyID: a.ID, Name: "Admin", Permissions: []string{"*"}})
	require.NoError(t, err)
	_, err = s.Roles().Create(ctx, repository.CreateRoleInput{CompanyID: b.ID, Name: "Admin"})
	require.NoError(t, err)

	_, err = s.Roles().Create(ctx, repository.CreateRoleInput{CompanyID: a.ID, Name: "Admin"})
	assert.True(t, repository.IsConflict(err))

	_, err = s.Roles().Create(ctx, repository.CreateRoleInput{CompanyID: "nope", Name: "Admin"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	roles, err := s.Roles().ListByCompany(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"*"}, roles[0].Permissions)
}

func TestWithTx_RollbackDiscardsEverything(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("roles failed")

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		u, err := tx.Users().Create(ctx, repository.CreateUserInput{Email: "a@x.com"})
		require.NoError(t, err)
		c, err := tx.Companies().Create(ctx, repository.CreateCompanyInput{Name: "Acme", Slug: "acme"})
		require.NoError(t, err)

		// visible dentro de la transacción
		_, err = tx.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		_, err = tx.Companies().GetByID(ctx, c.ID)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Companies().GetByName(ctx, "Acme")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithTx_CommitPublishes(t *testing.T) {
	s := New()
	ctx := context.Background()

	var companyID string
	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		u, err := tx.Users().Create(ctx, repository.CreateUserInput{Email: "a@x.com"})
		if err != nil {
			return err
		}
		c, err := tx.Companies().Create(ctx, repository.CreateCompanyInput{Name: "Acme", Slug: "acme"})
		if err != nil {
			return err
		}
		companyID = c.ID
		_, err = tx.Memberships().Create(ctx, repository.CreateMembershipInput{
			UserID: u.ID, CompanyID: c.ID, Status: repository.MemberActive, IsActive: true, JoinedAt: time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	members, err := s.Memberships().ListByCompany(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestWithTx_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithTx(ctx, func(context.Context, repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemberships_FirstActiveIsDeterministic(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, repository.CreateUserInput{Email: "a@x.com"})
	require.NoError(t, err)
	late := seedCompany(t, s, "Late", "late")
	early := seedCompany(t, s, "Early", "early")
	inactive := seedCompany(t, s, "Gone", "gone")

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	create := func(companyID string, joined time.Time, active bool) {
		_, err := s.Memberships().Create(ctx, repository.CreateMembershipInput{
			UserID: u.ID, CompanyID: companyID, Status: repository.MemberActive, IsActive: active, JoinedAt: joined,
		})
		require.NoError(t, err)
	}
	create(late.ID, t0.Add(time.Hour), true)
	create(early.ID, t0, true)
	create(inactive.ID, t0.Add(-time.Hour), false)

	m, err := s.Memberships().FirstActiveByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, early.ID, m.CompanyID)

	_, err = s.Memberships().Create(ctx, repository.CreateMembershipInput{
		UserID: u.ID, CompanyID: early.ID, Status: repository.MemberActive, JoinedAt: t0,
	})
	assert.True(t, repository.IsConflict(err))

	_, err = s.Memberships().FirstActiveByUser(ctx, "other")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentCreates_OneWinner(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, confl int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
				_, err := tx.Companies().Create(ctx, repository.CreateCompanyInput{Name: "Acme", Slug: "acme"})
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if repository.IsConflict(err) {
				confl++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, confl)
}
