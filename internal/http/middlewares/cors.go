package middlewares

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS habilita CORS con credenciales para la allow-list de orígenes
// del frontend (FRONTEND_URL / FRONTEND_URLS).
func WithCORS(allowed []string) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
