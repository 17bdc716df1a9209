// backend/internal/api/handlers/contact.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/royboker/portfolio-backend/internal/mailer"
	"github.com/royboker/portfolio-backend/internal/models"
	"github.com/royboker/portfolio-backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ContactHandler struct {
	mail   *mailer.Service
	logger *logrus.Logger
}

func NewContactHandler(mail *mailer.Service, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{
		mail:   mail,
		logger: logger,
	}
}

// HandleContact relays a contact-form submission to the owner's inbox. Every
// mailer outcome maps to a status payload; nothing is raised to the caller.
func (h *ContactHandler) HandleContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid contact request")
		utils.ErrorResponse(c, http.StatusOK, "Name, email and message are required.")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"name":    req.Name,
		"email":   req.Email,
		"preview": preview(req.Message, 100),
	}).Info("Incoming contact request")

	outcome := h.mail.SendContact(c.Request.Context(), req.Name, req.Email, req.Message)

	switch outcome {
	case mailer.OutcomeSent:
		utils.SuccessResponse(c, http.StatusOK, "Email sent successfully!")
	case mailer.OutcomeSimulated:
		utils.StatusResponse(c, http.StatusOK, "simulated_success", "Message received (email delivery simulated).")
	case mailer.OutcomeNotConfigured:
		utils.ErrorResponse(c, http.StatusOK, "Email service not configured. Please contact administrator.")
	default:
		utils.ErrorResponse(c, http.StatusOK, "Failed to send email. Please try again later.")
	}
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
