package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/askhat-b/partforge/internal/config"
)

// Client talks to the external DFM/pricing service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a pricing client from configuration.
func NewClient(cfg config.PricingConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// QuotePart submits the model payload and part spec and returns price, lead
// time and manufacturability findings.
func (c *Client) QuotePart(ctx context.Context, fileName string, payload io.Reader, spec PartSpec) (QuoteResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return QuoteResult{}, fmt.Errorf("build pricing request: %w", err)
	}
	if _, err := io.Copy(part, payload); err != nil {
		return QuoteResult{}, fmt.Errorf("build pricing request: %w", err)
	}

	_ = writer.WriteField("technology", spec.Technology)
	_ = writer.WriteField("material", spec.Material)
	_ = writer.WriteField("finish", spec.Finish)
	_ = writer.WriteField("quantity", strconv.Itoa(spec.Quantity))

	if err := writer.Close(); err != nil {
		return QuoteResult{}, fmt.Errorf("build pricing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/quote", body)
	if err != nil {
		return QuoteResult{}, fmt.Errorf("build pricing request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return QuoteResult{}, fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return QuoteResult{}, ErrUnquotable
	case resp.StatusCode != http.StatusOK:
		return QuoteResult{}, fmt.Errorf("%w: status %d", ErrPricingUnavailable, resp.StatusCode)
	}

	var result QuoteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return QuoteResult{}, fmt.Errorf("decode pricing response: %w", err)
	}
	return result, nil
}
