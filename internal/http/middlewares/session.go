package middlewares

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/session"
	tokens "github.com/ameyasuite/backend/internal/security/token"
)

// SessionLoader carga una sesión por id.
type SessionLoader interface {
	Load(ctx context.Context, id string) (*session.Session, error)
}

// CookieDecoder extrae el session id del valor de la cookie.
type CookieDecoder interface {
	Decode(value string) (string, error)
}

// WithSession lee la cookie de sesión y, si es válida y el registro existe,
// deja la sesión en el contexto. Sin cookie, con cookie inválida o con la
// sesión expirada el request sigue sin sesión.
func WithSession(loader SessionLoader, codec CookieDecoder, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			sid, err := codec.Decode(ck.Value)
			if err != nil {
				logger.From(r.Context()).Debug("session cookie rejected",
					logger.Component("session"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			s, err := loader.Load(r.Context(), sid)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					logger.From(r.Context()).Warn("session load failed",
						logger.Component("session"), logger.SessionID(tokens.SHA256Hex(sid)), logger.Err(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// UserFetcher devuelve el usuario saneado o nil; nunca falla.
type UserFetcher interface {
	GetUserByID(ctx context.Context, id string) *repository.PublicUser
}

// SessionSaver persiste la sesión.
type SessionSaver interface {
	Save(ctx context.Context, s *session.Session) error
}

// WithUserHydration copia el snapshot de usuario de la sesión a la identidad
// del request. Si la sesión sólo trae userId, busca el usuario (requests
// concurrentes por el mismo id comparten la búsqueda), lo guarda en la
// sesión y lo usa como identidad. Los errores se tragan: el request sigue
// sin identidad.
func WithUserHydration(users UserFetcher, saver SessionSaver) Middleware {
	var group singleflight.Group

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			s := session.FromContext(ctx)
			if !s.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}

			ident := s.User.Sanitize()
			if ident == nil {
				v, _, _ := group.Do(s.UserID, func() (any, error) {
					// la búsqueda es compartida: no depende de la cancelación
					// del request que la inició
					return users.GetUserByID(context.WithoutCancel(ctx), s.UserID), nil
				})
				if u, _ := v.(*repository.PublicUser); u != nil {
					ident = u.Sanitize()
					s.SetUser(ident)
					if err := saver.Save(ctx, s); err != nil {
						logger.From(ctx).Warn("session write-through failed",
							logger.Component("hydrator"), logger.UserID(s.UserID), logger.Err(err))
					}
				}
			}
			if ident == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithIdentity(ctx, ident)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(ident.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
