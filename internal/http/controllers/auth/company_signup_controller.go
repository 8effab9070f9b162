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

// CompanySignupController atiende POST /auth/company-signup.
type CompanySignupController struct {
	auth       svc.AuthService
	issuer     *sessionIssuer
	production bool
	metrics    *metrics.Metrics
}

func (c *CompanySignupController) CompanySignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CompanySignupController.CompanySignup"))

	var req dto.CompanySignupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if missing := missingCompanyFields(req); len(missing) > 0 {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(strings.Join(missing, ", ")))
		return
	}

	res, err := c.auth.CompanySignup(ctx, req)
	if err == nil {
		err = c.issuer.issue(w, r, res.User)
	}
	if err != nil {
		var rce *svc.RoleCreationError
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, svc.ErrEmailInUse):
			c.metrics.AuthEvent("company_signup", metrics.ResultFailure)
			httperrors.WriteError(w, httperrors.ErrEmailInUse)
		case errors.Is(err, svc.ErrCompanyNameTaken):
			c.metrics.AuthEvent("company_signup", metrics.ResultFailure)
			httperrors.WriteError(w, httperrors.ErrCompanyNameTaken)
		case errors.Is(err, svc.ErrPasswordTooLong):
			c.metrics.AuthEvent("company_signup", metrics.ResultFailure)
			httperrors.WriteError(w, httperrors.ErrPasswordTooLong)
		case errors.As(err, &rce):
			c.metrics.AuthEvent("company_signup", metrics.ResultError)
			httperrors.WriteError(w, httperrors.ErrRoleCreationFailed.WithDetail(rce.Detail).WithCause(err))
		default:
			c.metrics.AuthEvent("company_signup", metrics.ResultError)
			log.Error("company signup failed", logger.Err(err))
			writeUnexpected(w, c.production, "COMPANY_SIGNUP_FAILED", err)
		}
		return
	}

	c.metrics.AuthEvent("company_signup", metrics.ResultSuccess)
	audit.Log(ctx, audit.EventCompanySignup, logger.UserID(res.User.ID), logger.CompanyID(res.Company.ID))
	helpers.WriteJSON(w, http.StatusOK, dto.CompanySignupResponse{
		User:    res.User,
		Company: res.Company,
		Success: true,
		Message: "Company and admin user created successfully",
	})
}

func missingCompanyFields(req dto.CompanySignupRequest) []string {
	var missing []string
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	return missing
}
