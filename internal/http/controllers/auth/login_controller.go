package auth

import (
	"net/http"
	"strings"

	"github.com/ameyasuite/backend/internal/audit"
	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	svc "github.com/ameyasuite/backend/internal/http/services/auth"
	"github.com/ameyasuite/backend/internal/metrics"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

// LoginController atiende POST /auth/login.
type LoginController struct {
	auth    svc.AuthService
	issuer  *sessionIssuer
	metrics *metrics.Metrics
}

func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrEmailAndPasswordRequired)
		return
	}

	user := c.auth.ValidateUser(ctx, req.Email, req.Password)
	if user == nil {
		c.metrics.AuthEvent("login", metrics.ResultFailure)
		audit.Log(ctx, audit.EventLoginFailed, logger.Email(req.Email), logger.ClientIP(helpers.ClientIP(r)))
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
		return
	}

	if err := c.issuer.issue(w, r, user); err != nil {
		c.metrics.AuthEvent("login", metrics.ResultError)
		log.Error("session issue failed", logger.UserID(user.ID), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}

	c.metrics.AuthEvent("login", metrics.ResultSuccess)
	audit.Log(ctx, audit.EventLogin, logger.UserID(user.ID), logger.ClientIP(helpers.ClientIP(r)))
	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{User: user})
}
