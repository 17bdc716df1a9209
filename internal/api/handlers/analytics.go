// backend/internal/api/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/royboker/portfolio-backend/internal/models"
	"github.com/royboker/portfolio-backend/internal/notifier"
	"github.com/royboker/portfolio-backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

type AnalyticsHandler struct {
	dispatcher *notifier.Dispatcher
	logger     *logrus.Logger
}

func NewAnalyticsHandler(dispatcher *notifier.Dispatcher, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleEvent accepts an analytics event and acknowledges immediately. The
// notification runs in the background; its outcome never reaches the caller.
func (h *AnalyticsHandler) HandleEvent(c *gin.Context) {
	var req models.AnalyticsEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("Invalid analytics event")
		utils.ErrorResponse(c, http.StatusOK, "event_type is required.")
		return
	}

	if !notifier.ValidEventType(req.EventType) {
		utils.ErrorResponse(c, http.StatusOK, "Unknown event type.")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"event_type": req.EventType,
		"app_name":   req.AppName,
	}).Debug("Analytics event received")

	h.dispatcher.Submit(notifier.Event{
		EventType: req.EventType,
		AppName:   req.AppName,
		Details:   req.Details,
	})

	utils.StatusResponse(c, http.StatusOK, "success", "")
}
