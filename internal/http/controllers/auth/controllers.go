// Package auth contiene los controllers de /auth.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/ameyasuite/backend/internal/domain/repository"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	svc "github.com/ameyasuite/backend/internal/http/services/auth"
	"github.com/ameyasuite/backend/internal/metrics"
	"github.com/ameyasuite/backend/internal/session"
)

// Sessions es la parte del session.Manager que usan los controllers.
type Sessions interface {
	Regenerate(ctx context.Context, old *session.Session, user *repository.PublicUser) (*session.Session, error)
	Destroy(ctx context.Context, s *session.Session) error
}

// CookieEncoder firma el session id en el valor de la cookie.
type CookieEncoder interface {
	Encode(sid string) (string, error)
}

// Deps contiene las dependencias de los controllers auth.
type Deps struct {
	Auth       svc.AuthService
	Sessions   Sessions
	Cookies    CookieEncoder
	Cookie     helpers.CookieOptions
	Production bool             // respuestas de error genéricas
	Metrics    *metrics.Metrics // opcional
	Now        func() time.Time // nil = time.Now
}

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Signup        *SignupController
	CompanySignup *CompanySignupController
	Login         *LoginController
	Logout        *LogoutController
	Me            *MeController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(d Deps) *Controllers {
	if d.Now == nil {
		d.Now = time.Now
	}
	issuer := &sessionIssuer{sessions: d.Sessions, cookies: d.Cookies, opts: d.Cookie, now: d.Now, metrics: d.Metrics}
	return &Controllers{
		Signup:        &SignupController{auth: d.Auth, issuer: issuer, production: d.Production, metrics: d.Metrics},
		CompanySignup: &CompanySignupController{auth: d.Auth, issuer: issuer, production: d.Production, metrics: d.Metrics},
		Login:         &LoginController{auth: d.Auth, issuer: issuer, metrics: d.Metrics},
		Logout:        &LogoutController{sessions: d.Sessions, opts: d.Cookie, metrics: d.Metrics},
		Me:            &MeController{auth: d.Auth},
	}
}

// sessionIssuer emite una sesión nueva para user (descartando la del
// request, si la hay) y escribe la cookie.
type sessionIssuer struct {
	sessions Sessions
	cookies  CookieEncoder
	opts     helpers.CookieOptions
	now      func() time.Time
	metrics  *metrics.Metrics
}

func (i *sessionIssuer) issue(w http.ResponseWriter, r *http.Request, user *repository.PublicUser) error {
	s, err := i.sessions.Regenerate(r.Context(), session.FromContext(r.Context()), user)
	if err != nil {
		return httperrors.WithStack(err)
	}
	value, err := i.cookies.Encode(s.ID)
	if err != nil {
		_ = i.sessions.Destroy(r.Context(), s)
		return httperrors.WithStack(err)
	}
	http.SetCookie(w, helpers.BuildCookie(i.opts, value, i.now()))
	i.metrics.SessionEvent("created")
	return nil
}
