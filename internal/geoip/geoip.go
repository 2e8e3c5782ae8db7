// Package geoip resolves a country name from an IP address via an
// ip-api.com-style JSON endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Unknown is the degraded value used whenever a lookup cannot complete.
const Unknown = "Unknown location"

// Client performs best-effort lookups: any failure or timeout yields Unknown
// rather than an error, so callers never block registration or login on it.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a client for the given endpoint base URL.
func New(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 3 * time.Second},
	}
}

// Country returns the country for the IP, or Unknown.
func (c *Client) Country(ctx context.Context, ip string) string {
	if strings.TrimSpace(ip) == "" {
		return Unknown
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.endpoint, ip), nil)
	if err != nil {
		log.Printf("geoip: build request for %s: %v", ip, err)
		return Unknown
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("geoip: lookup %s: %v", ip, err)
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("geoip: lookup %s: status %d", ip, resp.StatusCode)
		return Unknown
	}

	var payload struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("geoip: decode response for %s: %v", ip, err)
		return Unknown
	}
	if payload.Country == "" {
		return Unknown
	}
	return payload.Country
}
