package mailer

import (
	"context"
	"fmt"

	"github.com/royboker/portfolio-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// Message is a fully formatted email ready for any transport.
type Message struct {
	Subject string
	Body    string
}

// Sender delivers a message to the configured destination address.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Outcome tells the API layer which public status to report. Transport
// detail never leaves this package except through the logs.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeSimulated
	OutcomeNotConfigured
	OutcomeFailed
)

type Service struct {
	sender   Sender
	simulate bool
	logger   *logrus.Logger
}

// NewService picks the delivery strategy from configuration. A provider key
// wins over SMTP credentials; with neither present the service stays up and
// reports OutcomeNotConfigured on every send.
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	s := &Service{
		simulate: cfg.Mail.Simulate,
		logger:   logger,
	}

	switch {
	case cfg.Mail.Provider == "resend" || (cfg.Mail.Provider == "" && cfg.Mail.ResendAPIKey != ""):
		if cfg.Mail.ResendAPIKey == "" {
			logger.Warn("Resend provider selected but RESEND_API_KEY is not set")
			return s
		}
		s.sender = NewResendClient(cfg.Mail.ResendBaseURL, cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Mail.To, logger)
		logger.Info("Mailer configured with Resend provider")
	case cfg.Mail.Provider == "smtp" || cfg.Mail.Provider == "":
		if cfg.Mail.SMTPHost == "" || cfg.Mail.SMTPUser == "" || cfg.Mail.SMTPPassword == "" {
			logger.Warn("Mail credentials not configured, contact delivery disabled")
			return s
		}
		s.sender = NewSMTPSender(
			cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPSSLPort,
			cfg.Mail.SMTPUser, cfg.Mail.SMTPPassword,
			cfg.Mail.From, cfg.Mail.To, logger,
		)
		logger.Info("Mailer configured with direct SMTP delivery")
	default:
		logger.WithField("provider", cfg.Mail.Provider).Warn("Unknown mail provider, contact delivery disabled")
	}

	return s
}

// NewServiceWithSender is used by tests and callers that already hold a transport.
func NewServiceWithSender(sender Sender, logger *logrus.Logger) *Service {
	return &Service{sender: sender, logger: logger}
}

func (s *Service) Configured() bool {
	return s.sender != nil
}

// Deliver sends a preformatted message and maps every transport failure to an
// outcome the API layer can translate.
func (s *Service) Deliver(ctx context.Context, msg Message) Outcome {
	if s.simulate {
		s.logger.WithField("subject", msg.Subject).Info("Mail simulation enabled, skipping delivery")
		return OutcomeSimulated
	}
	if s.sender == nil {
		return OutcomeNotConfigured
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("subject", msg.Subject).Error("Email delivery failed")
		return OutcomeFailed
	}

	return OutcomeSent
}

// SendContact formats and delivers a contact-form submission.
func (s *Service) SendContact(ctx context.Context, name, email, message string) Outcome {
	body := fmt.Sprintf(`
New message from Portfolio Website:

Name: %s
Email: %s

Message:
%s
`, name, email, message)

	return s.Deliver(ctx, Message{
		Subject: fmt.Sprintf("Portfolio Contact: %s", name),
		Body:    body,
	})
}
