package middlewares

import (
	"net/http"
	"runtime/debug"

	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

// WithRecover captura panics y responde INTERNAL_ERROR en lugar de crashear.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.From(r.Context()).Error("panic recovered",
					logger.Op("recover"),
					logger.Any("panic", rec),
					logger.String("stack", string(debug.Stack())),
				)
				httperrors.WriteError(w, httperrors.ErrInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
