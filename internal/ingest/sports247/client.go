package sports247

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fortuna/portal/internal/ingest"
)

const defaultTimeout = 15 * time.Second

// 247 pages can exceed a few MB; anything past this is truncated junk
const maxBodyBytes = 16 << 20

// Client fetches 247Sports pages over plain HTTP; they render server-side
type Client struct {
	http *http.Client
}

// NewClient creates a client; a nil httpClient gets a 15s timeout
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{http: httpClient}
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", ingest.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}
