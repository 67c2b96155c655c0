// Package notify delivers run summaries to external channels.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Ensure Webhook implements the interface.
var _ driven.Notifier = (*Webhook)(nil)

// DefaultTimeout bounds one webhook delivery.
const DefaultTimeout = 10 * time.Second

// Webhook posts run summaries as JSON to a configured URL.
// Delivery is best-effort: the caller logs and drops errors.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a webhook notifier. A zero timeout uses the default.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// payload is the webhook body.
type payload struct {
	Text   string `json:"text"`
	SentAt string `json:"sent_at"`
}

// Notify posts one message.
func (w *Webhook) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(payload{
		Text:   message,
		SentAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshalling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivering webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
