package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ResendClient talks to the Resend transactional send API.
type ResendClient struct {
	baseURL    string
	apiKey     string
	from       string
	to         string
	httpClient *http.Client
	logger     *logrus.Logger
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

func NewResendClient(baseURL, apiKey, from, to string, logger *logrus.Logger) *ResendClient {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &ResendClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		to:      to,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	payload := sendEmailRequest{
		From:    c.from,
		To:      []string{c.to},
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := c.baseURL + "/emails"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"url":          url,
		"subject":      msg.Subject,
		"payload_size": len(jsonData),
	}).Debug("Sending email via Resend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"status_code":   resp.StatusCode,
			"response_body": string(responseBody),
		}).Debug("Resend API error response")
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	var result sendEmailResponse
	if len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, &result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"email_id": result.ID,
		"subject":  msg.Subject,
	}).Info("Email sent via Resend")

	return nil
}
