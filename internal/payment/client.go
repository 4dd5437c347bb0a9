package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/askhat-b/partforge/internal/config"
)

// Client talks to the external hosted-checkout provider.
type Client struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

// NewClient builds a payment client from configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreateSession opens a hosted-checkout session for the cart and returns the
// redirect handle.
func (c *Client) CreateSession(ctx context.Context, in CheckoutInput) (Session, error) {
	if len(in.Items) == 0 {
		return Session{}, ErrEmptyCart
	}

	payload := struct {
		CheckoutInput
		SuccessURL string `json:"successUrl"`
		CancelURL  string `json:"cancelUrl"`
	}{CheckoutInput: in, SuccessURL: c.successURL, CancelURL: c.cancelURL}

	body, err := json.Marshal(payload)
	if err != nil {
		return Session{}, fmt.Errorf("encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Session{}, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return Session{}, fmt.Errorf("decode checkout response: %w", err)
	}
	return session, nil
}
