package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameyasuite/backend/internal/domain/repository"
	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	"github.com/ameyasuite/backend/internal/security/password"
	"github.com/ameyasuite/backend/internal/store/memory"
)

func newService(t *testing.T, st repository.Store) AuthService {
	t.Helper()
	h, err := password.NewBcrypt(4)
	require.NoError(t, err)
	return NewAuthService(Deps{Store: st, Hasher: h})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme, Inc.":      "acme-inc",
		"  Foo---Bar  ":   "foo-bar",
		"Acme Inc":        "acme-inc",
		"---":             "",
		"Über Café 2000!": "ber-caf-2000",
		"already-a-slug":  "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSignup_LowercasesAndSanitizes(t *testing.T) {
	st := memory.New()
	svc := newService(t, st)
	ctx := context.Background()

	u, err := svc.Signup(ctx, dto.SignupRequest{Email: "Ada@Example.COM", Password: "secret1", Name: "Ada  King Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	require.NotNil(t, u.FirstName)
	require.NotNil(t, u.LastName)
	assert.Equal(t, "Ada", *u.FirstName)
	assert.Equal(t, "King Lovelace", *u.LastName)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")

	stored, err := st.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.Password)
	assert.NotEqual(t, "secret1", *stored.Password)
}

func TestSignup_ExplicitNamesWin(t *testing.T) {
	svc := newService(t, memory.New())
	u, err := svc.Signup(context.Background(), dto.SignupRequest{
		Email: "a@x.com", Password: "p", FirstName: "Grace", Name: "Ignored Name",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", *u.FirstName)
	assert.Nil(t, u.LastName)
}

func TestSignup_DuplicateEmailAnyCasing(t *testing.T) {
	svc := newService(t, memory.New())
	ctx := context.Background()

	_, err := svc.Signup(ctx, dto.SignupRequest{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, dto.SignupRequest{Email: "A@X.com", Password: "q"})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestCompanySignup_Scenario(t *testing.T) {
	st := memory.New()
	svc := newService(t, st)
	ctx := context.Background()

	res, err := svc.CompanySignup(ctx, dto.CompanySignupRequest{
		CompanyName: "Acme Inc", Email: "a@x.com", Password: "secret1", Name: "Ada Lovelace",
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-inc", res.Company.Slug)
	assert.Equal(t, repository.DefaultThemeColor, res.Company.ThemeColor)
	require.Len(t, res.Roles, 3)
	assert.Equal(t, "Admin", res.Roles[0].Name)
	assert.Equal(t, []string{"*"}, res.Roles[0].Permissions)
	assert.Equal(t, "Manager", res.Roles[1].Name)
	assert.Equal(t, []string{"read", "write", "manage_team"}, res.Roles[1].Permissions)
	assert.Equal(t, "User", res.Roles[2].Name)
	assert.Equal(t, []string{"read", "write"}, res.Roles[2].Permissions)

	m := res.Membership
	assert.Equal(t, repository.MemberActive, m.Status)
	assert.True(t, m.IsActive)
	assert.Equal(t, res.User.ID, m.UserID)
	require.NotNil(t, m.RoleID)
	assert.Equal(t, res.Roles[0].ID, *m.RoleID)
	assert.Equal(t, "Ada", *m.FirstName)
	assert.False(t, m.JoinedAt.IsZero())

	roles, err := st.Roles().ListByCompany(ctx, res.Company.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 3)
}

func TestCompanySignup_Conflicts(t *testing.T) {
	svc := newService(t, memory.New())
	ctx := context.Background()

	_, err := svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "a@x.com", Password: "p", CompanyName: "Acme"})
	require.NoError(t, err)

	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "A@x.com", Password: "p", CompanyName: "Other"})
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "b@x.com", Password: "p", CompanyName: "  Acme  "})
	assert.ErrorIs(t, err, ErrCompanyNameTaken)

	// mismo slug, distinto nombre: lo rechaza el constraint dentro de la tx
	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "c@x.com", Password: "p", CompanyName: "ACME!"})
	assert.ErrorIs(t, err, ErrCompanyNameTaken)

	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "d@x.com", Password: "p"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestCompanySignup_ConcurrentIdenticalRequests(t *testing.T) {
	svc := newService(t, memory.New())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "a@x.com", Password: "p", CompanyName: "Acme"})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, ErrEmailInUse) || errors.Is(err, ErrCompanyNameTaken), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)
}

// failingRolesStore hace fallar la creación del rol n-ésimo dentro de la tx.
type failingRolesStore struct {
	repository.Store
	failAt int
	err    error
}

func (s *failingRolesStore) WithTx(ctx context.Context, fn func(context.Context, repository.Repos) error) error {
	return s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		return fn(ctx, &failingRolesRepos{Repos: tx, failAt: s.failAt, err: s.err})
	})
}

type failingRolesRepos struct {
	repository.Repos
	failAt int
	err    error
}

func (r *failingRolesRepos) Roles() repository.RoleRepository {
	return &failingRoles{RoleRepository: r.Repos.Roles(), parent: r}
}

type failingRoles struct {
	repository.RoleRepository
	parent *failingRolesRepos
}

func (f *failingRoles) Create(ctx context.Context, in repository.CreateRoleInput) (*repository.CompanyRole, error) {
	f.parent.failAt--
	if f.parent.failAt == 0 {
		return nil, f.parent.err
	}
	return f.RoleRepository.Create(ctx, in)
}

func TestCompanySignup_RoleFailureRollsBackEverything(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	cases := map[string]error{
		"constraint": &repository.ConstraintError{Constraint: repository.ConstraintRoleCompanyName, Detail: "Key (company_id, name) already exists."},
		"generic":    errors.New("connection reset"),
	}
	for name, cause := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, &failingRolesStore{Store: st, failAt: 2, err: cause})
			_, err := svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "a@x.com", Password: "p", CompanyName: "Acme"})
			require.ErrorIs(t, err, ErrRoleCreationFailed)

			var rce *RoleCreationError
			require.ErrorAs(t, err, &rce)
			assert.Equal(t, "Manager", rce.Role)
			if name == "constraint" {
				assert.Contains(t, rce.Detail, repository.ConstraintRoleCompanyName)
			} else {
				assert.Equal(t, "connection reset", rce.Detail)
			}

			_, err = st.Users().GetByEmail(ctx, "a@x.com")
			assert.ErrorIs(t, err, repository.ErrNotFound)
			_, err = st.Companies().GetByName(ctx, "Acme")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestValidateUser(t *testing.T) {
	st := memory.New()
	svc := newService(t, st)
	ctx := context.Background()

	_, err := svc.Signup(ctx, dto.SignupRequest{Email: "solo@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{
		Email: "boss@x.com", Password: "pw", CompanyName: "Acme", ThemeColor: "#112233",
	})
	require.NoError(t, err)

	u := svc.ValidateUser(ctx, "SOLO@x.com", "pw")
	require.NotNil(t, u)
	assert.Nil(t, u.ThemeColor)

	u = svc.ValidateUser(ctx, "boss@x.com", "pw")
	require.NotNil(t, u)
	require.NotNil(t, u.ThemeColor)
	assert.Equal(t, "#112233", *u.ThemeColor)

	assert.Nil(t, svc.ValidateUser(ctx, "boss@x.com", "wrong"))
	assert.Nil(t, svc.ValidateUser(ctx, "nobody@x.com", "pw"))
}

func TestValidateUser_NoPasswordSet(t *testing.T) {
	st := memory.New()
	_, err := st.Users().Create(context.Background(), repository.CreateUserInput{Email: "nopw@x.com"})
	require.NoError(t, err)

	assert.Nil(t, newService(t, st).ValidateUser(context.Background(), "nopw@x.com", ""))
}

// brokenUniqueStore simula un índice único ausente: GetByEmail falla.
type brokenUniqueStore struct {
	repository.Store
	fallbackErr error
	fallbacks   int
}

func (s *brokenUniqueStore) Users() repository.UserRepository {
	return &brokenUniqueUsers{UserRepository: s.Store.Users(), parent: s}
}

type brokenUniqueUsers struct {
	repository.UserRepository
	parent *brokenUniqueStore
}

func (u *brokenUniqueUsers) GetByEmail(context.Context, string) (*repository.User, error) {
	return nil, fmt.Errorf("pg: get user by email: %w", repository.ErrNotUnique)
}

func (u *brokenUniqueUsers) FindFirstByEmail(ctx context.Context, email string) (*repository.User, error) {
	u.parent.fallbacks++
	if u.parent.fallbackErr != nil {
		return nil, u.parent.fallbackErr
	}
	return u.UserRepository.FindFirstByEmail(ctx, email)
}

func TestValidateUser_FallbackLookup(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	_, err := newService(t, st).Signup(ctx, dto.SignupRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	broken := &brokenUniqueStore{Store: st}
	svc := newService(t, broken)
	u := svc.ValidateUser(ctx, "a@x.com", "pw")
	require.NotNil(t, u)
	assert.Equal(t, 1, broken.fallbacks)

	broken.fallbackErr = errors.New("still broken")
	assert.Nil(t, svc.ValidateUser(ctx, "a@x.com", "pw"))
	assert.Equal(t, 2, broken.fallbacks)
}

func TestSignup_DuplicatedEmailRowsCountAsInUse(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, &brokenUniqueStore{Store: memory.New()})

	_, err := svc.Signup(ctx, dto.SignupRequest{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "a@x.com", Password: "pw", CompanyName: "Acme"})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := newService(t, st)
	long := strings.Repeat("p", 80)

	_, err := svc.Signup(ctx, dto.SignupRequest{Email: "a@x.com", Password: long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = svc.CompanySignup(ctx, dto.CompanySignupRequest{Email: "a@x.com", Password: long, CompanyName: "Acme"})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = st.Users().GetByEmail(ctx, "a@x.com")
	assert.True(t, repository.IsNotFound(err))
	_, err = st.Companies().GetByName(ctx, "Acme")
	assert.True(t, repository.IsNotFound(err))
}

type failingGetStore struct{ repository.Store }

func (s failingGetStore) Users() repository.UserRepository {
	return failingGetUsers{s.Store.Users()}
}

type failingGetUsers struct{ repository.UserRepository }

func (failingGetUsers) GetByID(context.Context, string) (*repository.User, error) {
	return nil, errors.New("db down")
}

func TestGetUserByID(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	svc := newService(t, st)

	created, err := svc.Signup(ctx, dto.SignupRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	got := svc.GetUserByID(ctx, created.ID)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	assert.Nil(t, svc.GetUserByID(ctx, "missing"))
	assert.Nil(t, svc.GetUserByID(ctx, ""))
	assert.Nil(t, newService(t, failingGetStore{st}).GetUserByID(ctx, created.ID))
}

func TestCompanySignup_JoinedAtUsesClock(t *testing.T) {
	h, err := password.NewBcrypt(4)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAuthService(Deps{Store: memory.New(), Hasher: h, Now: func() time.Time { return fixed }})

	res, err := svc.CompanySignup(context.Background(), dto.CompanySignupRequest{Email: "a@x.com", Password: "p", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.True(t, fixed.Equal(res.Membership.JoinedAt))
}
