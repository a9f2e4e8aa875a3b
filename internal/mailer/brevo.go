package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Mailer dispatches transactional mail.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, html string) error
}

// BrevoClient talks to the Brevo transactional API. Without an API key and
// sender identity it stays unconfigured and rejects every send, which the
// login flow tolerates.
type BrevoClient struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	configured bool
}

func NewBrevoClient(apiKey, fromEmail, fromName string) *BrevoClient {
	c := &BrevoClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		c.apiKey = apiKey
		c.fromEmail = fromEmail
		c.fromName = fromName
		c.configured = true
	}
	return c
}

func (c *BrevoClient) IsConfigured() bool {
	return c.configured
}

type brevoParty struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendReq struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

func (c *BrevoClient) Send(ctx context.Context, toEmail, subject, html string) error {
	if !c.configured {
		return errors.New("brevo client not configured")
	}
	if toEmail == "" || subject == "" || html == "" {
		return errors.New("recipient, subject and body are all required")
	}

	payload, err := json.Marshal(brevoSendReq{
		Sender:      brevoParty{Email: c.fromEmail, Name: c.fromName},
		To:          []brevoParty{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Brevo error bodies are short JSON; keep them for the log line
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("brevo responded %d: %s", resp.StatusCode, body)
	}
	return nil
}
