// Package registration provides the HTTP client for the collection-point
// registration endpoint.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"
)

const requestTimeout = 15 * time.Second

// Client sends completed records to the registration service. Every call is
// a single attempt; retry policy belongs to the operator, not this client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a registration client for the given base URL.
func New(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// Register posts the record to the points endpoint. Any non-2xx status or
// transport error is a failure; the response body is not needed on success.
func (c *Client) Register(ctx context.Context, rec form.Record) error {
	if rec.Items == nil {
		rec.Items = []int{}
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/points", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("registration request failed", "error", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("registration upstream error", "status", resp.StatusCode)
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}
	return nil
}

var _ form.Registrar = (*Client)(nil)
