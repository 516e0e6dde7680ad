// Package notify delivers out-of-band alerts to a chat webhook. Delivery is
// best effort: a failed post is logged and never fails the triggering
// request.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sink delivers a single payload.
type Sink interface {
	Send(ctx context.Context, payload interface{}) error
}

// WebhookSink posts JSON payloads to a chat webhook URL.
type WebhookSink struct {
	url    string
	client *http.Client
}

func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSink) Send(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// Notifier fans alerts out to a sink. A nil or unconfigured sink disables
// delivery without changing call sites.
type Notifier struct {
	sink Sink
	log  *zap.Logger
}

func NewNotifier(sink Sink, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{sink: sink, log: log}
}

// Text sends a plain text message.
func (n *Notifier) Text(ctx context.Context, message string) {
	n.dispatch(ctx, TextMessage{Text: message})
}

// Card sends a rich card payload, used for emergency access requests.
func (n *Notifier) Card(ctx context.Context, card CardMessage) {
	n.dispatch(ctx, card)
}

func (n *Notifier) dispatch(ctx context.Context, payload interface{}) {
	if n.sink == nil {
		return
	}
	if err := n.sink.Send(ctx, payload); err != nil {
		n.log.Warn("notify: delivery failed", zap.Error(err))
	}
}
