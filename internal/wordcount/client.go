package wordcount

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wcountd/load-balancer/internal/backend"
)

// Result maps a word to the number of times it occurs in a payload.
type Result map[string]int64

// Client forwards count requests to word-count backends. Every call is
// bounded by the configured timeout; there is no cancellation beyond it.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client whose forwarded requests time out after the
// given duration.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Count posts the payload to the backend's /count endpoint and decodes the
// word map from the response. Connection errors, timeouts, non-200 statuses
// and malformed bodies are all reported as errors so the dispatcher can
// fail over.
func (c *Client) Count(ctx context.Context, b *backend.Backend, payload string) (Result, error) {
	countURL := b.URL().ResolveReference(&url.URL{Path: "/count"})

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, countURL.String(), strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	b.RecordRequest()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s unreachable: %w", b.Name(), err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("backend %s returned status %d", b.Name(), res.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("backend %s returned malformed response: %w", b.Name(), err)
	}

	return result, nil
}
