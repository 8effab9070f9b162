// Package health contiene DTOs para endpoints de health check.
package health

import "time"

// LivenessResponse es la respuesta de GET /health.
type LivenessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ComponentStatus representa el estado de un componente específico.
type ComponentStatus struct {
	Status  string `json:"status"` // "ok" | "error"
	Message string `json:"message,omitempty"`
}

// ReadinessResponse es la respuesta de GET /readyz.
type ReadinessResponse struct {
	Status     string                     `json:"status"` // "ready" | "unavailable"
	Code       string                     `json:"code,omitempty"`
	Message    string                     `json:"message,omitempty"`
	Components map[string]ComponentStatus `json:"components"`
	Timestamp  time.Time                  `json:"timestamp"`
}
