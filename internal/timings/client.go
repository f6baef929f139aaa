package timings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://api.aladhan.com/v1"
	DefaultMethod  = 1
)

// Client talks to the Al Adhan timings API.
type Client struct {
	httpClient *http.Client
	// BaseURL is exported so tests can point it at httptest.
	BaseURL string
	Method  int
}

// NewClient returns a client with a 10s timeout. An empty baseURL selects
// the public API.
func NewClient(baseURL string, method int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		Method:     method,
	}
}

// FetchByCity issues a single timingsByCity request for today's times.
func (c *Client) FetchByCity(ctx context.Context, city, country string) (*Response, error) {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	params.Set("method", strconv.Itoa(c.Method))

	reqURL := fmt.Sprintf("%s/timingsByCity?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}
	if apiResp.Data == nil || apiResp.Data.Timings == nil {
		return nil, ErrMalformed
	}
	return &apiResp, nil
}
