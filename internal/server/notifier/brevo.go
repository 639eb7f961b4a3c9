package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const brevoSubject = "Your Why? Community verification code"

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoMessage struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// BrevoNotifier sends codes through the Brevo transactional email API.
type BrevoNotifier struct {
	client *http.Client
	opts   Options
}

func NewBrevoNotifier(client *http.Client, opts Options) *BrevoNotifier {
	return &BrevoNotifier{client: client, opts: opts}
}

func (n *BrevoNotifier) Notify(ctx context.Context, email, code string) error {
	msg := brevoMessage{
		Sender:      brevoContact{Name: n.opts.SenderName, Email: n.opts.SenderEmail},
		To:          []brevoContact{{Email: email}},
		Subject:     brevoSubject,
		HTMLContent: messageBody(code, n.opts.CodeTTL),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", n.opts.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
}

func messageBody(code string, ttl time.Duration) string {
	minutes := int(ttl.Minutes())
	if minutes <= 0 {
		return fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p>", code)
	}
	return fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It is valid for %d minutes.</p>", code, minutes)
}

var _ Notifier = (*BrevoNotifier)(nil)
