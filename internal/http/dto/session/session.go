// Package session contiene los DTOs de los endpoints /session.
package session

import "encoding/json"

// SetRequest es el body del endpoint legacy POST /session/set.
type SetRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// SetKeyRequest es el body de POST /session/set/{key}.
type SetKeyRequest struct {
	Value json.RawMessage `json:"value"`
}

// StatusResponse es la respuesta {success, message}.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SetKeyResponse struct {
	Success bool            `json:"success"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	Message string          `json:"message"`
}

// GetResponse lleva value null cuando la key no existe.
type GetResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type InfoResponse struct {
	SessionID   string         `json:"sessionId"`
	SessionData map[string]any `json:"sessionData"`
}

// CacheSetRequest: TTL en segundos; ausente o <= 0 usa el TTL por defecto.
type CacheSetRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
	TTL   *int            `json:"ttl,omitempty"`
}

// CacheSetResponse devuelve ttl tal como vino en el request (null si no vino).
type CacheSetResponse struct {
	Success bool            `json:"success"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	TTL     *int            `json:"ttl"`
	Message string          `json:"message"`
}
