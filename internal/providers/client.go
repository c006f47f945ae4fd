package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SerpClient issues requests against the SerpAPI search endpoint. One client
// is shared by all SerpAPI-backed providers; it is safe for concurrent use.
type SerpClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewSerpClient creates a client for baseURL, normally
// "https://serpapi.com/search.json". maxRetries is the number of extra
// attempts after a transient failure; 0 disables retrying.
func NewSerpClient(apiKey, baseURL string, maxRetries int) *SerpClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SerpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		// The 30s timeout guards against stalled connections while context
		// cancellation is still honoured via NewRequestWithContext.
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: maxRetries,
	}
}

// Search runs one engine query and returns the raw JSON body. Network
// failures and 5xx responses are retried with a short backoff; 4xx and
// undecodable bodies are not, those will not improve on a second try.
func (c *SerpClient) Search(ctx context.Context, engine string, params map[string]string) (json.RawMessage, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("engine", engine)
	values.Set("api_key", c.apiKey)
	requestURL := c.baseURL + "?" + values.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, retryable, err := c.do(ctx, requestURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

// do performs a single request. The second return value reports whether the
// failure is worth retrying.
func (c *SerpClient) do(ctx context.Context, requestURL string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("serpapi: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("serpapi: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("serpapi: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("serpapi: status %d: %s: %w", resp.StatusCode, truncate(body, 200), ErrStatus)
	}

	if !json.Valid(body) {
		return nil, false, fmt.Errorf("serpapi: response is not JSON: %s: %w", truncate(body, 200), ErrDecode)
	}
	return json.RawMessage(body), nil, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
