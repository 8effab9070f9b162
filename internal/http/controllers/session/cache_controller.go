package session

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dto "github.com/ameyasuite/backend/internal/http/dto/session"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

// CacheController expone el cache genérico. Las keys no tienen namespace:
// evitar colisiones es responsabilidad del caller.
type CacheController struct {
	store Store
}

// SetLegacy atiende POST /session/cache/set con {key, value, ttl?}.
func (c *CacheController) SetLegacy(w http.ResponseWriter, r *http.Request) {
	var req dto.CacheSetRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Key == "" {
		helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{
			Success: false,
			Message: "Missing key. Use POST /session/cache/set/:key instead.",
		})
		return
	}
	c.set(w, r, req, "Cache data set (legacy).")
}

// Set atiende POST /session/cache/set/{key} con {value, ttl?}.
func (c *CacheController) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.CacheSetRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Key = chi.URLParam(r, "key")
	c.set(w, r, req, "Cache data set successfully")
}

func (c *CacheController) set(w http.ResponseWriter, r *http.Request, req dto.CacheSetRequest, msg string) {
	var ttl time.Duration
	if req.TTL != nil {
		ttl = time.Duration(*req.TTL) * time.Second
	}
	value := normalize(req.Value)
	if _, err := c.store.SetCacheData(r.Context(), req.Key, value, ttl); err != nil {
		logger.From(r.Context()).Error("cache set failed", logger.Component("cache"), logger.Key(req.Key), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.CacheSetResponse{
		Success: true,
		Key:     req.Key,
		Value:   value,
		TTL:     req.TTL,
		Message: msg,
	})
}

// Get atiende GET /session/cache/get/{key}; value null si no existe.
func (c *CacheController) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, _, err := c.store.GetCacheData(r.Context(), key)
	if err != nil {
		logger.From(r.Context()).Error("cache get failed", logger.Component("cache"), logger.Key(key), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.GetResponse{Key: key, Value: normalize(value)})
}

// Delete atiende DELETE /session/cache/delete/{key}.
func (c *CacheController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.DeleteCacheData(r.Context(), chi.URLParam(r, "key")); err != nil {
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Cache data deleted successfully"})
}

// Clear atiende DELETE /session/cache/clear. Los registros de sesión no se
// ven afectados.
func (c *CacheController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.store.ClearAllCache(r.Context()); err != nil {
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "Cache cleared successfully"})
}
