package middlewares

import (
	"context"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxIdentityKey  ctxKey = "identity"
)

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID devuelve el request id o "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}

// WithIdentity inyecta el usuario autenticado del request.
func WithIdentity(ctx context.Context, u *repository.PublicUser) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, u)
}

// GetIdentity devuelve el usuario autenticado o nil.
func GetIdentity(ctx context.Context) *repository.PublicUser {
	u, _ := ctx.Value(ctxIdentityKey).(*repository.PublicUser)
	return u
}
