package auth

import (
	"errors"
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

// SignupController atiende POST /auth/signup y su alias /auth/register.
type SignupController struct {
	auth       svc.AuthService
	issuer     *sessionIssuer
	production bool
	metrics    *metrics.Metrics
}

func (c *SignupController) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SignupController.Signup"))

	var req dto.SignupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrEmailAndPasswordRequired)
		return
	}

	user, err := c.auth.Signup(ctx, req)
	if err == nil {
		err = c.issuer.issue(w, r, user)
	}
	if err != nil {
		if errors.Is(err, svc.ErrEmailInUse) {
			c.metrics.AuthEvent("signup", metrics.ResultFailure)
			httperrors.WriteError(w, httperrors.ErrEmailInUse)
			return
		}
		if errors.Is(err, svc.ErrPasswordTooLong) {
			c.metrics.AuthEvent("signup", metrics.ResultFailure)
			httperrors.WriteError(w, httperrors.ErrPasswordTooLong)
			return
		}
		c.metrics.AuthEvent("signup", metrics.ResultError)
		log.Error("signup failed", logger.Err(err))
		writeUnexpected(w, c.production, "SIGNUP_FAILED", err)
		return
	}

	c.metrics.AuthEvent("signup", metrics.ResultSuccess)
	audit.Log(ctx, audit.EventSignup, logger.UserID(user.ID))
	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{User: user})
}

// writeUnexpected colapsa a INTERNAL_ERROR en producción y devuelve el
// detalle de la causa en desarrollo.
func writeUnexpected(w http.ResponseWriter, production bool, label string, err error) {
	if production {
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	httperrors.WriteDebug(w, label, err)
}
