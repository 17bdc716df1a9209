package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/royboker/portfolio-backend/internal/generation"
	"github.com/royboker/portfolio-backend/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Failure taxonomy for the document-chat endpoints. The API layer maps these
// to public messages; anything else stays in the logs.
var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionExpired        = errors.New("session expired")
	ErrQuestionLimit         = errors.New("question limit reached")
	ErrFileTooLarge          = errors.New("file too large")
	ErrUnsupportedType       = errors.New("unsupported file type")
	ErrEmptyDocument         = errors.New("no text could be extracted")
	ErrUnreadableDocument    = errors.New("document could not be read")
	ErrGenerationUnavailable = errors.New("AI service unavailable")
)

type Config struct {
	MaxQuestions   int
	SessionTTL     time.Duration
	MaxUploadBytes int64
	DocCharLimit   int
	RequestTimeout time.Duration
}

type Service struct {
	store     *Store
	generator generation.Generator
	cfg       Config
	logger    *logrus.Logger
}

type UploadResult struct {
	SessionID          string
	QuestionsRemaining int
	AutoSummary        string
}

type AskResult struct {
	Answer             string
	QuestionsAsked     int
	QuestionsRemaining int
}

type SessionInfo struct {
	Filename           string
	QuestionsAsked     int
	QuestionsRemaining int
	CreatedAt          time.Time
}

// NewService wires the session store with an optional generator. A nil
// generator disables answers and summaries but keeps uploads working.
func NewService(generator generation.Generator, cfg Config, logger *logrus.Logger, now func() time.Time) *Service {
	return &Service{
		store:     NewStore(cfg.SessionTTL, now),
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// Upload validates and extracts the document, then creates the session. The
// auto-summary is best effort: any generation failure is hidden from the
// caller and only successful summaries count against the quota.
func (s *Service) Upload(ctx context.Context, filename string, data []byte, sessionID string) (*UploadResult, error) {
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), s.cfg.MaxUploadBytes)
	}

	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	// A new upload supersedes the caller's previous session
	if sessionID != "" {
		s.store.Delete(sessionID)
	}

	id := utils.NewSessionID()
	s.store.Create(id, text, filename)

	s.logger.WithFields(logrus.Fields{
		"session_id":    id,
		"filename":      filename,
		"document_size": len(text),
	}).Info("Chat session created")

	result := &UploadResult{
		SessionID:          id,
		QuestionsRemaining: s.cfg.MaxQuestions,
	}

	if summary := s.generateSummary(ctx, id, text); summary != "" {
		result.AutoSummary = summary
		if _, ok := s.store.IncrementQuestions(id, s.cfg.MaxQuestions); ok {
			result.QuestionsRemaining = s.cfg.MaxQuestions - 1
		}
	}

	return result, nil
}

func (s *Service) generateSummary(ctx context.Context, sessionID, documentText string) string {
	if s.generator == nil {
		return ""
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	summary, err := s.generator.Generate(genCtx, buildSummaryPrompt(documentText, s.cfg.DocCharLimit))
	if err != nil {
		// Quota errors and everything else alike: the summary is optional
		// and its failure never reaches the caller.
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Auto-summary generation failed")
		return ""
	}

	s.store.SetAutoSummary(sessionID, summary)
	return summary
}

// Ask runs one question against the session's document. The quota counter
// moves only after the model answered.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*AskResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.store.Expired(session) {
		s.store.Delete(sessionID)
		s.logger.WithField("session_id", sessionID).Info("Expired chat session removed")
		return nil, ErrSessionExpired
	}

	if session.QuestionsAsked >= s.cfg.MaxQuestions {
		return nil, ErrQuestionLimit
	}

	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	answer, err := s.generator.Generate(genCtx, buildAskPrompt(session.DocumentText, question, s.cfg.DocCharLimit))
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("Answer generation failed")
		return nil, ErrGenerationUnavailable
	}

	asked, ok := s.store.IncrementQuestions(sessionID, s.cfg.MaxQuestions)
	if !ok {
		// The session raced away between the check and the answer
		return nil, ErrQuestionLimit
	}

	return &AskResult{
		Answer:             answer,
		QuestionsAsked:     asked,
		QuestionsRemaining: s.cfg.MaxQuestions - asked,
	}, nil
}

// Info returns session metadata. Expired sessions are pruned and reported as
// missing so follow-up asks see the same answer.
func (s *Service) Info(sessionID string) (*SessionInfo, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.store.Expired(session) {
		s.store.Delete(sessionID)
		return nil, ErrSessionNotFound
	}

	return &SessionInfo{
		Filename:           session.Filename,
		QuestionsAsked:     session.QuestionsAsked,
		QuestionsRemaining: s.cfg.MaxQuestions - session.QuestionsAsked,
		CreatedAt:          session.CreatedAt,
	}, nil
}

// StartSweeper removes expired sessions periodically until ctx is done.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.store.Sweep(); removed > 0 {
					s.logger.WithField("removed", removed).Debug("Swept expired chat sessions")
				}
			}
		}
	}()
}
