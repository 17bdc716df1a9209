// backend/internal/api/handlers/status.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/royboker/portfolio-backend/internal/health"
	"github.com/royboker/portfolio-backend/internal/models"
)

type StatusHandler struct {
	checker     *health.Checker
	serviceName string
	healthName  string
}

func NewStatusHandler(checker *health.Checker, serviceName, healthName string) *StatusHandler {
	return &StatusHandler{
		checker:     checker,
		serviceName: serviceName,
		healthName:  healthName,
	}
}

// HandleRoot answers the liveness probe on /
func (h *StatusHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "online",
		Service: h.serviceName,
	})
}

// HandleHealth answers the hosting platform's health check
func (h *StatusHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:         "healthy",
		Service:        h.healthName,
		Uptime:         h.checker.Uptime(),
		ActiveSessions: h.checker.ActiveSessions(),
		Features:       h.checker.Features(),
	})
}
