package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

// SMTPSender delivers mail directly over SMTP. It tries the submission port
// with STARTTLS first and falls back to an implicit-TLS connection, the way
// the usual 587/465 provider pairs behave.
type SMTPSender struct {
	host     string
	port     string
	sslPort  string
	username string
	password string
	from     string
	to       string
	logger   *logrus.Logger
}

func NewSMTPSender(host, port, sslPort, username, password, from, to string, logger *logrus.Logger) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		sslPort:  sslPort,
		username: username,
		password: password,
		from:     from,
		to:       to,
		logger:   logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	data := s.buildMessage(msg)

	if err := s.sendSTARTTLS(ctx, data); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"host": s.host,
			"port": s.port,
		}).Warn("STARTTLS delivery failed, falling back to implicit TLS")

		if sslErr := s.sendImplicitTLS(ctx, data); sslErr != nil {
			s.logger.WithError(sslErr).WithFields(logrus.Fields{
				"host": s.host,
				"port": s.sslPort,
			}).Error("Implicit TLS delivery failed")
			return fmt.Errorf("smtp delivery failed: %w", sslErr)
		}
	}

	s.logger.WithField("subject", msg.Subject).Info("Email sent via SMTP")
	return nil
}

func (s *SMTPSender) buildMessage(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + s.to + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

func (s *SMTPSender) sendSTARTTLS(ctx context.Context, data []byte) error {
	addr := net.JoinHostPort(s.host, s.port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}

	return s.deliver(client, data)
}

func (s *SMTPSender) sendImplicitTLS(ctx context.Context, data []byte) error {
	addr := net.JoinHostPort(s.host, s.sslPort)

	d := tls.Dialer{Config: &tls.Config{ServerName: s.host}}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("tls dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	return s.deliver(client, data)
}

func (s *SMTPSender) deliver(client *smtp.Client, data []byte) error {
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(s.to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}
