package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/ameyasuite/backend/internal/http/dto/session"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/session"
)

// DataController maneja los valores guardados en la sesión del request.
// Cada escritura toca el tier de transporte (persistido con Save) y el
// espejo session:{sid}:{key} en el cache.
type DataController struct {
	store Store
}

// SetLegacy atiende POST /session/set con {key, value}.
func (c *DataController) SetLegacy(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Key == "" {
		helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{
			Success: false,
			Message: "Missing key. Use POST /session/set/:key instead.",
		})
		return
	}
	if err := c.set(r, req.Key, normalize(req.Value)); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Session data set (legacy)."})
}

// Set atiende POST /session/set/{key} con {value}.
func (c *DataController) Set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req dto.SetKeyRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	value := normalize(req.Value)
	if err := c.set(r, key, value); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SetKeyResponse{
		Success: true,
		Key:     key,
		Value:   value,
		Message: "Session data set successfully",
	})
}

func (c *DataController) set(r *http.Request, key string, value json.RawMessage) error {
	ctx := r.Context()
	s := session.FromContext(ctx)
	if s == nil {
		return httperrors.ErrUnauthorized
	}
	s.Set(key, value)
	if err := c.store.SetSessionData(ctx, s, key, value); err != nil {
		logger.From(ctx).Error("mirror set failed", logger.Component("session"), logger.Key(key), logger.Err(err))
		return httperrors.ErrInternal.WithCause(err)
	}
	if err := c.store.Save(ctx, s); err != nil {
		logger.From(ctx).Error("session save failed", logger.Component("session"), logger.Err(err))
		return httperrors.ErrInternal.WithCause(err)
	}
	return nil
}

// Get atiende GET /session/get/{key}: primero el tier de transporte, luego
// el espejo en cache. value es null si no está en ninguno.
func (c *DataController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")
	s := session.FromContext(ctx)

	value, ok := s.Get(key)
	if !ok {
		mirrored, found, err := c.store.GetSessionData(ctx, s, key)
		if err != nil {
			logger.From(ctx).Error("mirror get failed", logger.Component("session"), logger.Key(key), logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
			return
		}
		if found {
			value = mirrored
		}
	}
	helpers.WriteJSON(w, http.StatusOK, dto.GetResponse{Key: key, Value: normalize(value)})
}

// Delete atiende DELETE /session/delete/{key}.
func (c *DataController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")
	s := session.FromContext(ctx)
	if s == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	s.Delete(key)
	if err := c.store.DeleteSessionData(ctx, s, key); err != nil {
		logger.From(ctx).Error("mirror delete failed", logger.Component("session"), logger.Key(key), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	if err := c.store.Save(ctx, s); err != nil {
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Session data deleted successfully"})
}

// Info atiende GET /session/info.
func (c *DataController) Info(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		helpers.WriteJSON(w, http.StatusOK, dto.InfoResponse{SessionID: "No session ID", SessionData: map[string]any{}})
		return
	}

	data := make(map[string]any, len(s.Values)+4)
	for k, v := range s.Values {
		data[k] = v
	}
	data["userId"] = s.UserID
	data["user"] = s.User
	data["createdAt"] = s.CreatedAt
	data["expiresAt"] = s.ExpiresAt
	helpers.WriteJSON(w, http.StatusOK, dto.InfoResponse{SessionID: s.ID, SessionData: data})
}
