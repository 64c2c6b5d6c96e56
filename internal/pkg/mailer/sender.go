package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/girlscollective/collective/internal/pkg/apperrors"
)

// Message is one outgoing HTML email
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// APISender posts to a transactional email HTTP API
type APISender struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewAPISender creates an API sender
func NewAPISender(client *http.Client, endpoint, apiKey string) *APISender {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &APISender{client: client, endpoint: endpoint, apiKey: apiKey}
}

type apiPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *APISender) Send(ctx context.Context, msg Message) error {
	if s.apiKey == "" {
		return apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "email API key is not configured")
	}

	body, err := json.Marshal(apiPayload{From: msg.From, To: msg.To, Subject: msg.Subject, HTML: msg.HTML})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: email API returned %d: %s", apperrors.ErrUpstream, resp.StatusCode, detail)
	}
	return nil
}
