// Package geo resolves a best-effort initial coordinate for the operator.
// The browser's own geolocation result, when granted, is passed in by the
// frontend; this package covers the fallback path of resolving the client IP
// against a geolocation provider.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"
)

const requestTimeout = 3 * time.Second

// Provider answers one-shot IP position lookups.
type Provider interface {
	Lookup(ctx context.Context, ip string) (form.Coordinate, error)
}

// Client is the HTTP client for an ip-api style geolocation provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a geolocation client for the given base URL.
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

type lookupResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Lookup resolves the position of one IP address.
func (c *Client) Lookup(ctx context.Context, ip string) (form.Coordinate, error) {
	reqURL := fmt.Sprintf("%s/json/%s?fields=status,lat,lon", c.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return form.Coordinate{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return form.Coordinate{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return form.Coordinate{}, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var raw lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return form.Coordinate{}, fmt.Errorf("decode payload: %w", err)
	}
	if raw.Status != "success" {
		return form.Coordinate{}, fmt.Errorf("lookup failed for %s", ip)
	}

	return form.Coordinate{Latitude: raw.Lat, Longitude: raw.Lon}, nil
}

var _ Provider = (*Client)(nil)
