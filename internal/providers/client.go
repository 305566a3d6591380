// Package providers fetches the authoritative onboarding snapshot from the
// upstream providers system.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"provider-onboarding/backend/internal/onboarding/domain"
)

// snapshotPath is the upstream endpoint listing every onboarded provider.
const snapshotPath = "/all-onboarded-providers"

// Client fetches snapshots over HTTP. It never retries; retry policy belongs
// to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a snapshot client for the given base URL. httpClient may
// be nil, in which case http.DefaultClient is used; timeouts come from the
// caller's context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// FetchAll performs one GET of the full snapshot. Any non-200 status, missing
// body, or undecodable body is a total fetch failure.
func (c *Client) FetchAll(ctx context.Context) ([]domain.SnapshotRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+snapshotPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fetch snapshot: empty body")
	}

	var records []domain.SnapshotRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}
