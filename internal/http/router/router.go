// Package router arma la tabla de rutas chi con la cadena de middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/ameyasuite/backend/internal/http/controllers/auth"
	healthctrl "github.com/ameyasuite/backend/internal/http/controllers/health"
	sessctrl "github.com/ameyasuite/backend/internal/http/controllers/session"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	mw "github.com/ameyasuite/backend/internal/http/middlewares"
	"github.com/ameyasuite/backend/internal/metrics"
)

// ExtraPublicRoutes se suman a mw.DefaultPublicRoutes.
var ExtraPublicRoutes = []string{
	"/auth/company-signup",
	"/auth/logout",
	"/health",
	"/readyz",
	"/metrics",
}

// SessionStore es lo que la cadena de sesión necesita del session.Manager.
type SessionStore interface {
	mw.SessionLoader
	mw.SessionSaver
}

// Deps contiene todo lo necesario para construir el router.
type Deps struct {
	Auth    *authctrl.Controllers
	Session *sessctrl.Controllers
	Health  *healthctrl.HealthController

	Sessions   SessionStore
	Cookies    mw.CookieDecoder
	CookieName string
	Users      mw.UserFetcher

	AllowedOrigins []string
	Metrics        *metrics.Metrics // nil deshabilita /metrics
	AuthLimiter    mw.RateLimiter   // nil = sin límite en login/signup
}

// New devuelve el handler raíz. Orden de la cadena: recover, request id,
// logging, métricas, cabeceras, CORS, carga de sesión, hidratación, guard.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	chain := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(d.Metrics),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.AllowedOrigins),
		mw.WithSession(d.Sessions, d.Cookies, d.CookieName),
		mw.WithUserHydration(d.Users, d.Sessions),
		mw.WithGuard(mw.NewGuard(ExtraPublicRoutes...)),
	}
	for _, m := range chain {
		if m != nil {
			r.Use(m)
		}
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/health", d.Health.Health)
	r.Get("/readyz", d.Health.Ready)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	registerAuthRoutes(r, d.Auth, mw.WithRateLimit(d.AuthLimiter, mw.IPPathRateKey))
	registerSessionRoutes(r, d.Session)
	return r
}

func registerAuthRoutes(r chi.Router, c *authctrl.Controllers, limit mw.Middleware) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/signup", c.Signup.Signup)
			r.Post("/register", c.Signup.Signup)
			r.Post("/company-signup", c.CompanySignup.CompanySignup)
			r.Post("/login", c.Login.Login)
		})
		r.Post("/logout", c.Logout.Logout)
		r.Get("/me", c.Me.Me)
	})
}

func registerSessionRoutes(r chi.Router, c *sessctrl.Controllers) {
	r.Route("/session", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.Post("/set", c.Data.SetLegacy)
		r.Post("/set/{key}", c.Data.Set)
		r.Get("/get/{key}", c.Data.Get)
		r.Delete("/delete/{key}", c.Data.Delete)
		r.Get("/info", c.Data.Info)

		r.Route("/cache", func(r chi.Router) {
			r.Post("/set", c.Cache.SetLegacy)
			r.Post("/set/{key}", c.Cache.Set)
			r.Get("/get/{key}", c.Cache.Get)
			r.Delete("/delete/{key}", c.Cache.Delete)
			r.Delete("/clear", c.Cache.Clear)
		})
	})
}
