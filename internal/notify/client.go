// Package notify delivers order notifications to the team messaging channel.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/askhat-b/partforge/internal/config"
)

// ErrDeliveryFailed signals the notification channel rejected or never
// received the message.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Attachment is one binary file attached to a message.
type Attachment struct {
	Name   string
	Reader io.Reader
}

// Message is a formatted notification plus zero or more attachments.
type Message struct {
	Text        string
	Attachments []Attachment
}

// Client posts messages to the configured channel webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient builds a notification client from configuration.
func NewClient(cfg config.NotifyConfig) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send delivers the message. A client with no webhook configured drops
// messages silently so local setups work without a channel.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.webhookURL == "" {
		return nil
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("text", msg.Text); err != nil {
		return fmt.Errorf("build notification: %w", err)
	}
	for i, att := range msg.Attachments {
		part, err := writer.CreateFormFile(fmt.Sprintf("file%d", i+1), att.Name)
		if err != nil {
			return fmt.Errorf("build notification: %w", err)
		}
		if _, err := io.Copy(part, att.Reader); err != nil {
			return fmt.Errorf("build notification: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, body)
	if err != nil {
		return fmt.Errorf("build notification: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}
