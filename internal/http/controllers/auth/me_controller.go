package auth

import (
	"net/http"

	dto "github.com/ameyasuite/backend/internal/http/dto/auth"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	mw "github.com/ameyasuite/backend/internal/http/middlewares"
	svc "github.com/ameyasuite/backend/internal/http/services/auth"
	"github.com/ameyasuite/backend/internal/session"
)

// MeController atiende GET /auth/me.
type MeController struct {
	auth svc.AuthService
}

// Me devuelve la identidad hidratada o, si no la hay, relee el usuario.
// {user: null} cuando el usuario de la sesión ya no existe.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := session.FromContext(ctx)
	if !s.Authenticated() {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	user := mw.GetIdentity(ctx)
	if user == nil {
		user = c.auth.GetUserByID(ctx, s.UserID)
	}
	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{User: user})
}
