// Package audit emite eventos de seguridad (login, signup, logout) como
// entradas estructuradas en el logger "audit".
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ameyasuite/backend/internal/observability/logger"
)

// Eventos conocidos.
const (
	EventSignup        = "auth.signup"
	EventCompanySignup = "auth.company_signup"
	EventLogin         = "auth.login"
	EventLoginFailed   = "auth.login_failed"
	EventLogout        = "auth.logout"
)

var now = time.Now

// Log escribe un evento de auditoría. Toma el logger del ctx, así que hereda
// request_id y demás campos del request.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("event", event),
		zap.String("ts", now().UTC().Format(time.RFC3339Nano)),
	}
	logger.From(ctx).Named("audit").Info("audit", append(base, fields...)...)
}
