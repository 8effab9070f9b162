package auth

import (
	"net/http"

	"github.com/ameyasuite/backend/internal/audit"
	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	"github.com/ameyasuite/backend/internal/http/helpers"
	"github.com/ameyasuite/backend/internal/metrics"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/session"
)

// LogoutController atiende POST /auth/logout. Siempre responde
// {success:true}, haya o no sesión.
type LogoutController struct {
	sessions Sessions
	opts     helpers.CookieOptions
	metrics  *metrics.Metrics
}

func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s := session.FromContext(ctx); s != nil {
		if err := c.sessions.Destroy(ctx, s); err != nil {
			logger.From(ctx).Warn("session destroy failed",
				logger.Layer("controller"), logger.Op("LogoutController.Logout"), logger.Err(err))
		} else {
			c.metrics.SessionEvent("destroyed")
			audit.Log(ctx, audit.EventLogout, logger.UserID(s.UserID))
		}
	}
	c.metrics.AuthEvent("logout", metrics.ResultSuccess)

	http.SetCookie(w, helpers.BuildDeletionCookie(c.opts))
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Success: true})
}
