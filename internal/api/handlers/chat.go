// backend/internal/api/handlers/chat.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/royboker/portfolio-backend/internal/chat"
	"github.com/royboker/portfolio-backend/internal/models"
	"github.com/royboker/portfolio-backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	service        *chat.Service
	maxUploadBytes int64
	logger         *logrus.Logger
}

func NewChatHandler(service *chat.Service, maxUploadBytes int64, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HandleUpload creates (or replaces) a chat session from an uploaded
// document. Validation failures use HTTP 400; everything else is a status
// payload on 200.
func (h *ChatHandler) HandleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "A PDF or TXT file is required.")
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		utils.ErrorResponse(c, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded file")
		utils.ErrorResponse(c, http.StatusBadRequest, "Could not read uploaded file.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded file")
		utils.ErrorResponse(c, http.StatusBadRequest, "Could not read uploaded file.")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		utils.ErrorResponse(c, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
		return
	}

	sessionID := c.PostForm("session_id")

	result, err := h.service.Upload(c.Request.Context(), fileHeader.Filename, data, sessionID)
	if err != nil {
		h.uploadError(c, fileHeader.Filename, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Status:             "success",
		SessionID:          result.SessionID,
		QuestionsRemaining: result.QuestionsRemaining,
		AutoSummary:        result.AutoSummary,
	})
}

func (h *ChatHandler) uploadError(c *gin.Context, filename string, err error) {
	h.logger.WithError(err).WithField("filename", filename).Warn("Document upload rejected")

	switch {
	case errors.Is(err, chat.ErrFileTooLarge):
		utils.ErrorResponse(c, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
	case errors.Is(err, chat.ErrUnsupportedType):
		utils.ErrorResponse(c, http.StatusBadRequest, "Unsupported file type. Please upload a PDF or TXT file.")
	case errors.Is(err, chat.ErrEmptyDocument):
		utils.ErrorResponse(c, http.StatusBadRequest, "No text could be extracted from the document.")
	case errors.Is(err, chat.ErrUnreadableDocument):
		utils.ErrorResponse(c, http.StatusBadRequest, "The document could not be read.")
	default:
		utils.ErrorResponse(c, http.StatusOK, "Upload failed. Please try again later.")
	}
}

// HandleAsk answers one question against a session's document.
func (h *ChatHandler) HandleAsk(c *gin.Context) {
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusOK, "session_id and question are required.")
		return
	}

	// Malformed ids can't name a session, skip the store lookup
	if !utils.ValidateSessionID(req.SessionID) {
		utils.ErrorResponse(c, http.StatusOK, "Session not found. Please upload a document first.")
		return
	}

	result, err := h.service.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		h.askError(c, req.SessionID, err)
		return
	}

	c.JSON(http.StatusOK, models.AskResponse{
		Status:             "success",
		Answer:             result.Answer,
		QuestionsRemaining: result.QuestionsRemaining,
		QuestionsAsked:     result.QuestionsAsked,
	})
}

func (h *ChatHandler) askError(c *gin.Context, sessionID string, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		utils.ErrorResponse(c, http.StatusOK, "Session not found. Please upload a document first.")
	case errors.Is(err, chat.ErrQuestionLimit):
		utils.ErrorResponse(c, http.StatusOK, "Question limit reached. Upload a new document to continue.")
	case errors.Is(err, chat.ErrSessionExpired):
		utils.ErrorResponse(c, http.StatusOK, "Session expired. Please upload the document again.")
	case errors.Is(err, chat.ErrGenerationUnavailable):
		utils.ErrorResponse(c, http.StatusOK, "AI service unavailable. Please try again later.")
	default:
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Ask failed")
		utils.ErrorResponse(c, http.StatusOK, "Something went wrong. Please try again later.")
	}
}

// HandleSessionInfo returns metadata for an active session.
func (h *ChatHandler) HandleSessionInfo(c *gin.Context) {
	sessionID := c.Param("id")
	if !utils.ValidateSessionID(sessionID) {
		utils.ErrorResponse(c, http.StatusOK, "Session not found.")
		return
	}

	info, err := h.service.Info(sessionID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusOK, "Session not found.")
		return
	}

	c.JSON(http.StatusOK, models.SessionInfoResponse{
		Status:             "success",
		Filename:           info.Filename,
		QuestionsAsked:     info.QuestionsAsked,
		QuestionsRemaining: info.QuestionsRemaining,
		CreatedAt:          info.CreatedAt.Format(time.RFC3339),
	})
}
