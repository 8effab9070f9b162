package middlewares

import (
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/session"
)

// ErrUnauthorized lo devuelve Guard.Allow cuando el request necesita sesión.
var ErrUnauthorized = errors.New("unauthorized")

// DefaultPublicRoutes son las rutas accesibles sin sesión.
var DefaultPublicRoutes = []string{"/auth/login", "/auth/signup", "/auth/register"}

// Guard decide si un request puede seguir sin sesión autenticada. Es un
// predicado puro: no hace I/O.
type Guard struct {
	public map[string]struct{}
}

// NewGuard crea un guard con DefaultPublicRoutes más extra.
func NewGuard(extra ...string) *Guard {
	g := &Guard{public: make(map[string]struct{}, len(DefaultPublicRoutes)+len(extra))}
	for _, p := range DefaultPublicRoutes {
		g.public[p] = struct{}{}
	}
	for _, p := range extra {
		g.public[p] = struct{}{}
	}
	return g
}

// Allow: preflight OPTIONS, rutas públicas (sin query string) y sesiones
// con userId pasan; el resto recibe ErrUnauthorized.
func (g *Guard) Allow(method, path string, s *session.Session) error {
	if method == http.MethodOptions {
		return nil
	}
	path, _, _ = strings.Cut(path, "?")
	if _, ok := g.public[path]; ok {
		return nil
	}
	if s.Authenticated() {
		return nil
	}
	return ErrUnauthorized
}

// IsPublic informa si path está en la allow-list.
func (g *Guard) IsPublic(path string) bool {
	path, _, _ = strings.Cut(path, "?")
	_, ok := g.public[path]
	return ok
}

// WithGuard responde 401 UNAUTHORIZED y corta la cadena cuando Allow falla.
func WithGuard(g *Guard) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Allow(r.Method, r.URL.Path, session.FromContext(r.Context())); err != nil {
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithCause(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
