package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	response "harambee_billing/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports dependency state. A failing probe makes the service
// unhealthy (503); an unconfigured gateway only degrades it.
type HealthHandler struct {
	gatewayMode string
	checks      map[string]HealthCheck
}

func NewHealthHandler(gatewayMode string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{gatewayMode: gatewayMode, checks: checks}
}

// Health godoc
// @Summary  Service health
// @Tags     health
// @Produce  json
// @Success  200  {object}  response.HealthResponse
// @Failure  503  {object}  response.HealthResponse
// @Router   /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	res := response.HealthResponse{Status: "healthy", Components: map[string]string{"gateway": h.gatewayMode}}
	if h.gatewayMode == "unconfigured" {
		res.Status = "degraded"
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			res.Components[name] = "down"
			res.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Components[name] = "up"
	}
	c.JSON(status, res)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
