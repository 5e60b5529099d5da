// Package regiondir provides the client for the administrative-divisions
// directory (IBGE localidades API) and an optional Redis read-through cache.
// Wire shapes are translated into plain UF codes and city names at this
// boundary; the form core never sees them.
package regiondir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"coleta_portal_backend/platform/logger"
)

const requestTimeout = 10 * time.Second

// Client is the HTTP client for the region directory service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a directory client for the given base URL
// (e.g. https://servicodados.ibge.gov.br/api/v1/localidades).
func New(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// ufResponse mirrors the relevant part of the directory's estados payload.
type ufResponse struct {
	Sigla string `json:"sigla"`
}

// cityResponse mirrors the relevant part of the municipios payload.
type cityResponse struct {
	Nome string `json:"nome"`
}

// Regions fetches the top-level UF codes.
func (c *Client) Regions(ctx context.Context) ([]string, error) {
	var raw []ufResponse
	if err := c.getJSON(ctx, c.baseURL+"/estados", &raw); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(raw))
	for _, uf := range raw {
		if uf.Sigla != "" {
			codes = append(codes, uf.Sigla)
		}
	}
	return codes, nil
}

// Cities fetches the city names for one UF code.
func (c *Client) Cities(ctx context.Context, uf string) ([]string, error) {
	reqURL := fmt.Sprintf("%s/estados/%s/municipios", c.baseURL, url.PathEscape(uf))

	var raw []cityResponse
	if err := c.getJSON(ctx, reqURL, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, city := range raw {
		if city.Nome != "" {
			names = append(names, city.Nome)
		}
	}
	return names, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("region directory request failed", "error", err, "url", reqURL)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("region directory upstream error", "status", resp.StatusCode, "url", reqURL)
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error("region directory decode failed", "error", err)
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
