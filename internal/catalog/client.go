// Package catalog provides the HTTP client for the item catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"
)

const requestTimeout = 10 * time.Second

// Client fetches the selectable recyclable-item categories.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a catalog client for the given base URL.
func New(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// Items fetches the catalog. Items are read-only reference data; callers
// fetch once per session and treat a failure as an empty catalog.
func (c *Client) Items(ctx context.Context) ([]form.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/items", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("catalog request failed", "error", err)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("catalog upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var items []form.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		c.log.Error("catalog decode failed", "error", err)
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return items, nil
}

var _ form.CatalogSource = (*Client)(nil)
