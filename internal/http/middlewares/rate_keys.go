package middlewares

import (
	"context"
	"math"
	"net/http"
	"strconv"

	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/rate"
)

// RateLimiter es lo que WithRateLimit necesita de rate.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (rate.Result, error)
}

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPPathRateKey arma la clave con IP + path sin leer el body, así login y
// signup tienen contadores separados.
func IPPathRateKey(r *http.Request) string {
	return helpers.ClientIP(r) + "|" + r.URL.Path
}

// WithRateLimit corta con 429 y Retry-After cuando l rechaza el request.
// Sin limiter no hace nada; si el limiter falla el request sigue.
func WithRateLimit(l RateLimiter, key RateKeyFunc) Middleware {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if key == nil {
		key = IPPathRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), key(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter error, allowing request",
					logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				logger.From(r.Context()).Info("rate limited",
					logger.Component("rate"), logger.Int("hits", int(res.CurrentHits)))
				httperrors.WriteError(w, httperrors.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
