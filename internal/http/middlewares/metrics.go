package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ameyasuite/backend/internal/metrics"
)

// WithMetrics instrumenta requests (contador, latencia, inflight). El label
// path es el patrón de ruta de chi cuando existe.
func WithMetrics(m *metrics.Metrics) Middleware {
	if m == nil {
		return nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			inflightPath := metrics.NormalizePath(r.URL.Path)
			done := m.Inflight(r.Method, inflightPath)
			rec := newStatusRecorder(w)

			defer func() {
				done()
				path := inflightPath
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					if p := rctx.RoutePattern(); p != "" {
						path = p
					}
				}
				m.ObserveHTTP(r.Method, path, rec.status, time.Since(start))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
