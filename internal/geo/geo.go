// Package geo resolves a viewer address to an approximate "City, Country"
// string through the free ip-api.com endpoint. Strictly best effort: every
// failure path returns an error the caller is expected to swallow, and the
// lookup runs under a short timeout so it can never hold up view recording
// for long.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/quickepk/quickepk/internal/errors"
)

// Locator is the lookup interface consumed by the tracking service.
// It exists so tests can substitute a canned resolver.
type Locator interface {
	Locate(ctx context.Context, address string) (string, error)
}

// Client resolves addresses against an ip-api.com compatible endpoint.
type Client struct {
	endpoint   string        // e.g. "http://ip-api.com/json"
	timeout    time.Duration // per-lookup budget
	httpClient *http.Client
}

// NewClient creates a geolocation client. The timeout bounds each lookup;
// view recording proceeds without a location once it expires.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// geoResponse mirrors the fields requested from ip-api.com.
type geoResponse struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Locate returns "City, Country" for the given address, or an error when the
// address is local/unknown, the request fails, or the response is incomplete.
func (c *Client) Locate(ctx context.Context, address string) (string, error) {
	// Loopback and unknown addresses never resolve; skip the round trip.
	if address == "" || address == "unknown" || address == "127.0.0.1" || address == "::1" {
		return "", apperrors.ErrGeoLookupFailed{Address: address, Reason: "local or unknown address"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s?fields=city,country", c.endpoint, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.ErrGeoLookupFailed{Address: address, Reason: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.ErrGeoLookupFailed{Address: address, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.ErrGeoLookupFailed{Address: address, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var geo geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return "", apperrors.ErrGeoLookupFailed{Address: address, Reason: err.Error()}
	}
	if geo.City == "" || geo.Country == "" {
		return "", apperrors.ErrGeoLookupFailed{Address: address, Reason: "incomplete response"}
	}

	return fmt.Sprintf("%s, %s", geo.City, geo.Country), nil
}
