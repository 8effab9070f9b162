// Package session contiene los controllers de /session: datos de la sesión
// (tier de transporte + espejo en cache) y el cache genérico.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ameyasuite/backend/internal/session"
)

// Store es la parte del session.Manager que usan estos controllers.
type Store interface {
	Save(ctx context.Context, s *session.Session) error

	SetSessionData(ctx context.Context, s *session.Session, key string, value json.RawMessage) error
	GetSessionData(ctx context.Context, s *session.Session, key string) (json.RawMessage, bool, error)
	DeleteSessionData(ctx context.Context, s *session.Session, key string) error

	SetCacheData(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) (time.Duration, error)
	GetCacheData(ctx context.Context, key string) (json.RawMessage, bool, error)
	DeleteCacheData(ctx context.Context, key string) error
	ClearAllCache(ctx context.Context) error
}

// Controllers agrupa los controllers del dominio session.
type Controllers struct {
	Data  *DataController
	Cache *CacheController
}

func NewControllers(store Store) *Controllers {
	return &Controllers{
		Data:  &DataController{store: store},
		Cache: &CacheController{store: store},
	}
}

// normalize reemplaza un valor ausente por JSON null.
func normalize(v json.RawMessage) json.RawMessage {
	if len(v) == 0 {
		return json.RawMessage("null")
	}
	return v
}
