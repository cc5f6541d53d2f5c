// Package geoip resolves visitor IPs to coarse location data via a
// third-party HTTP API. Lookups are best-effort: failures are returned to the
// caller to log, never to block a record insert.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// Location holds the derived geo fields stored on a visitor record.
type Location struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	Region   string `json:"regionName"`
	Timezone string `json:"timezone"`
	ISP      string `json:"isp"`
}

// Client queries an ip-api.com compatible endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a geolocation client for the given endpoint, e.g.
// "http://ip-api.com/json".
func New(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: lookupTimeout},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Location
}

// Lookup resolves one IP. Private, loopback and link-local addresses are
// rejected before any network call.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == "localhost" {
		return nil, fmt.Errorf("geoip: unresolvable ip %q", ip)
	}
	if parsed := net.ParseIP(ip); parsed == nil ||
		parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified() {
		return nil, fmt.Errorf("geoip: unresolvable ip %q", ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+ip, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip: lookup %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip: lookup %s: status %d", ip, resp.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("geoip: decode response: %w", err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("geoip: lookup %s: %s", ip, out.Message)
	}
	return &out.Location, nil
}
