// Package health contiene los controllers de liveness y readiness.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	dto "github.com/ameyasuite/backend/internal/http/dto/health"
	httperrors "github.com/ameyasuite/backend/internal/http/errors"
	"github.com/ameyasuite/backend/internal/http/helpers"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

// Pinger es cualquier dependencia con chequeo de disponibilidad.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check asocia un nombre de componente a su Pinger.
type Check struct {
	Name   string
	Pinger Pinger
}

type HealthController struct {
	checks  []Check
	timeout time.Duration
}

// NewHealthController ordena los checks por nombre para respuestas estables.
func NewHealthController(checks ...Check) *HealthController {
	cs := append([]Check(nil), checks...)
	sort.Slice(cs, func(i, j int) bool { return cs[i].Name < cs[j].Name })
	return &HealthController{checks: cs, timeout: 2 * time.Second}
}

// Health atiende GET /health.
func (c *HealthController) Health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.LivenessResponse{Status: "OK", Message: "Backend is running!"})
}

// Ready atiende GET /readyz: 200 si todos los componentes responden; si no,
// el status y code de httperrors.ErrServiceUnavailable con el detalle por
// componente.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	resp := dto.ReadinessResponse{
		Status:     "ready",
		Components: make(map[string]dto.ComponentStatus, len(c.checks)),
		Timestamp:  time.Now().UTC(),
	}
	status := http.StatusOK
	for _, chk := range c.checks {
		if err := chk.Pinger.Ping(ctx); err != nil {
			logger.From(ctx).Warn("readiness check failed", logger.Component(chk.Name), logger.Err(err))
			resp.Components[chk.Name] = dto.ComponentStatus{Status: "error", Message: err.Error()}
			resp.Status = "unavailable"
			resp.Code = httperrors.ErrServiceUnavailable.Code
			resp.Message = httperrors.ErrServiceUnavailable.Message
			status = httperrors.ErrServiceUnavailable.HTTPStatus
			continue
		}
		resp.Components[chk.Name] = dto.ComponentStatus{Status: "ok"}
	}
	helpers.WriteJSON(w, status, resp)
}
