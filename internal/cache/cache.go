// Package cache provee el key-value store con TTL usado por sesiones y por
// el cache genérico de la API.
//
// Soporta:
//   - Memory (in-process, go-cache; desarrollo y single-node)
//   - Redis (distribuido, para producción)
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl <= 0 significa sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key. No falla si no existe.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// Clear borra todas las keys del cliente (sólo las de su prefijo).
	Clear(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del cache.
type Stats struct {
	Driver     string
	Keys       int64
	UsedMemory string
	Hits       int64
	Misses     int64
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string // prefijo para todas las keys
	MaxItems int    // sólo memory; 0 = sin límite
}

// ErrNotFound key inexistente o expirada.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		c, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.MaxItems), nil
	default:
		return nil, fmt.Errorf("cache: driver %q not supported", cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
