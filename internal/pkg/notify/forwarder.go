package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// Notice types understood by the mailer function
const (
	TypeGroup = "group"
	TypeEvent = "event"
)

// ApprovalNotice is the body the mailer function expects
type ApprovalNotice struct {
	Type     string      `json:"type"`
	Item     interface{} `json:"item"`
	Subject  string      `json:"subject,omitempty"`
	AdminURL string      `json:"adminUrl,omitempty"`
}

// Forwarder relays JSON bodies to the mailer function with the shared secret
type Forwarder struct {
	client      *http.Client
	functionURL string
	secret      string
	logger      zerolog.Logger
}

// NewForwarder creates a forwarder. A nil client uses a 10 second timeout.
func NewForwarder(client *http.Client, functionURL, secret string, logger zerolog.Logger) *Forwarder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Forwarder{
		client:      client,
		functionURL: strings.TrimSpace(functionURL),
		secret:      secret,
		logger:      logger,
	}
}

// Configured reports whether a function URL and secret are set
func (f *Forwarder) Configured() bool {
	return f.functionURL != "" && f.secret != ""
}

// Forward posts body unchanged to the mailer function
func (f *Forwarder) Forward(ctx context.Context, body []byte) error {
	if !f.Configured() {
		return apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "notification function is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.functionURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.secret)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		f.logger.Warn().Int("status", resp.StatusCode).Str("body", string(msg)).Msg("Notify function rejected request")
		return fmt.Errorf("%w: notify function returned %d", apperrors.ErrUpstream, resp.StatusCode)
	}
	return nil
}

// Send marshals a notice and forwards it
func (f *Forwarder) Send(ctx context.Context, notice ApprovalNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("error encoding approval notice: %w", err)
	}
	return f.Forward(ctx, body)
}
