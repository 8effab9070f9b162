package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameyasuite/backend/internal/domain/repository"
	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	mw "github.com/ameyasuite/backend/internal/http/middlewares"
	svc "github.com/ameyasuite/backend/internal/http/services/auth"
	"github.com/ameyasuite/backend/internal/session"
)

type fakeAuth struct {
	signupErr  error
	companyErr error
	users      map[string]*repository.PublicUser
	lookups    int
}

func (f *fakeAuth) Signup(_ context.Context, in dto.SignupRequest) (*repository.PublicUser, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &repository.PublicUser{ID: "u1", Email: in.Email}, nil
}

func (f *fakeAuth) CompanySignup(_ context.Context, in dto.CompanySignupRequest) (*svc.CompanySignupResult, error) {
	if f.companyErr != nil {
		return nil, f.companyErr
	}
	return &svc.CompanySignupResult{
		User:    &repository.PublicUser{ID: "u1", Email: in.Email},
		Company: &repository.Company{ID: "c1", Name: in.CompanyName},
	}, nil
}

func (f *fakeAuth) ValidateUser(_ context.Context, email, password string) *repository.PublicUser {
	if password != "pw" {
		return nil
	}
	return &repository.PublicUser{ID: "u1", Email: email}
}

func (f *fakeAuth) GetUserByID(_ context.Context, id string) *repository.PublicUser {
	f.lookups++
	return f.users[id]
}

type fakeSessions struct {
	destroyed []string
	next      int
}

func (f *fakeSessions) Regenerate(_ context.Context, old *session.Session, user *repository.PublicUser) (*session.Session, error) {
	if old != nil {
		f.destroyed = append(f.destroyed, old.ID)
	}
	f.next++
	s := &session.Session{ID: "sid-" + string(rune('0'+f.next))}
	s.SetUser(user)
	return s, nil
}

func (f *fakeSessions) Destroy(_ context.Context, s *session.Session) error {
	f.destroyed = append(f.destroyed, s.ID)
	return nil
}

type plainCodec struct{}

func (plainCodec) Encode(sid string) (string, error) { return "signed." + sid, nil }

func newControllers(auth *fakeAuth, sessions *fakeSessions, production bool) *Controllers {
	return NewControllers(Deps{
		Auth:       auth,
		Sessions:   sessions,
		Cookies:    plainCodec{},
		Cookie:     helpers.CookieOptions{Name: "ameyaSuite", SameSite: "lax", Secure: production, MaxAge: 24 * time.Hour},
		Production: production,
		Now:        func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func post(ctx context.Context, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSignup_IssuesCookie(t *testing.T) {
	sessions := &fakeSessions{}
	c := newControllers(&fakeAuth{}, sessions, true)

	ctx := session.WithSession(context.Background(), &session.Session{ID: "old"})
	rec := post(ctx, c.Signup.Signup, `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "ameyaSuite", ck.Name)
	assert.Equal(t, "signed.sid-1", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 86400, ck.MaxAge)
	assert.Equal(t, []string{"old"}, sessions.destroyed)
}

func TestSignup_UnexpectedErrorBodies(t *testing.T) {
	cause := httperrors.WithStack(errors.New("disk on fire"))

	dev := newControllers(&fakeAuth{signupErr: cause}, &fakeSessions{}, false)
	rec := post(context.Background(), dev.Signup.Signup, `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "SIGNUP_FAILED", body["error"])
	assert.Equal(t, "disk on fire", body["message"])
	assert.Contains(t, body["stack"], "TestSignup_UnexpectedErrorBodies")

	prod := newControllers(&fakeAuth{signupErr: cause}, &fakeSessions{}, true)
	rec = post(context.Background(), prod.Signup.Signup, `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, body, "stack")
	assert.NotContains(t, body, "error")
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignup_EmailInUse(t *testing.T) {
	c := newControllers(&fakeAuth{signupErr: svc.ErrEmailInUse}, &fakeSessions{}, false)
	rec := post(context.Background(), c.Signup.Signup, `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_IN_USE", decode(t, rec)["code"])
}

func TestSignup_PasswordTooLong(t *testing.T) {
	c := newControllers(&fakeAuth{signupErr: svc.ErrPasswordTooLong}, &fakeSessions{}, false)
	rec := post(context.Background(), c.Signup.Signup, `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PASSWORD_TOO_LONG", decode(t, rec)["code"])
	assert.Empty(t, rec.Result().Cookies())

	c = newControllers(&fakeAuth{companyErr: svc.ErrPasswordTooLong}, &fakeSessions{}, false)
	rec = post(context.Background(), c.CompanySignup.CompanySignup, `{"email":"a@x.com","password":"pw","companyName":"Acme"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PASSWORD_TOO_LONG", decode(t, rec)["code"])
}

func TestCompanySignup_Errors(t *testing.T) {
	c := newControllers(&fakeAuth{}, &fakeSessions{}, false)
	rec := post(context.Background(), c.CompanySignup.CompanySignup, `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "MISSING_FIELDS", body["code"])
	assert.Equal(t, "email, password, companyName", body["detail"])

	roleErr := &svc.RoleCreationError{Role: "Manager", Detail: "permissions rejected"}
	c = newControllers(&fakeAuth{companyErr: roleErr}, &fakeSessions{}, false)
	rec = post(context.Background(), c.CompanySignup.CompanySignup, `{"email":"a@x.com","password":"pw","companyName":"Acme"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "ROLE_CREATION_FAILED", body["code"])
	assert.Equal(t, "permissions rejected", body["detail"])

	c = newControllers(&fakeAuth{companyErr: errors.New("boom")}, &fakeSessions{}, false)
	rec = post(context.Background(), c.CompanySignup.CompanySignup, `{"email":"a@x.com","password":"pw","companyName":"Acme"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "COMPANY_SIGNUP_FAILED", decode(t, rec)["error"])
}

func TestLogin(t *testing.T) {
	c := newControllers(&fakeAuth{}, &fakeSessions{}, false)

	rec := post(context.Background(), c.Login.Login, `{"email":"a@x.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = post(context.Background(), c.Login.Login, `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLogout(t *testing.T) {
	sessions := &fakeSessions{}
	c := newControllers(&fakeAuth{}, sessions, false)

	rec := post(context.Background(), c.Logout.Logout, ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])
	assert.Empty(t, sessions.destroyed)
	ck := rec.Result().Cookies()
	require.Len(t, ck, 1)
	assert.Equal(t, "ameyaSuite", ck[0].Name)
	assert.Less(t, ck[0].MaxAge, 0)

	ctx := session.WithSession(context.Background(), &session.Session{ID: "live", UserID: "u1"})
	rec = post(ctx, c.Logout.Logout, ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"live"}, sessions.destroyed)
}

func TestMe(t *testing.T) {
	stored := &repository.PublicUser{ID: "u1", Email: "stored@x.com"}
	auth := &fakeAuth{users: map[string]*repository.PublicUser{"u1": stored}}
	c := newControllers(auth, &fakeSessions{}, false)

	get := func(ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		c.Me.Me(rec, req)
		return rec
	}

	rec := get(context.Background())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sess := &session.Session{ID: "s", UserID: "u1"}
	ctx := session.WithSession(context.Background(), sess)

	hydrated := mw.WithIdentity(ctx, &repository.PublicUser{ID: "u1", Email: "snap@x.com"})
	rec = get(hydrated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "snap@x.com", decode(t, rec)["user"].(map[string]any)["email"])
	assert.Equal(t, 0, auth.lookups)

	rec = get(ctx)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stored@x.com", decode(t, rec)["user"].(map[string]any)["email"])
	assert.Equal(t, 1, auth.lookups)

	gone := session.WithSession(context.Background(), &session.Session{ID: "s", UserID: "ghost"})
	rec = get(gone)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "user")
	assert.Nil(t, body["user"])
}
