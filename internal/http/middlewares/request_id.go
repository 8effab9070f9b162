package middlewares

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// MaxRequestIDLen acota el X-Request-ID aceptado del cliente.
const MaxRequestIDLen = 128

// WithRequestID propaga el X-Request-ID del cliente o genera uno nuevo, lo
// expone en la respuesta y lo inyecta en el contexto.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if rid == "" || len(rid) > MaxRequestIDLen {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(setRequestID(r.Context(), rid)))
		})
	}
}
