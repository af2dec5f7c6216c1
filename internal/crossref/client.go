// Package crossref is a rate-limited client for the CrossRef works API.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/keller/citefmt/internal/reference"
)

const (
	// BaseURL is the CrossRef works API base URL.
	BaseURL = "https://api.crossref.org/works"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit keeps us well inside the polite-pool guidance.
	RateLimit = 10.0
)

// Client is a rate-limited HTTP client for the CrossRef API. Supplying a
// mailto address routes requests through CrossRef's polite pool.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMailto sets the contact address sent in the User-Agent header.
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		c.mailto = addr
	}
}

// NewClient creates a new CrossRef API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if addr := os.Getenv("CITEFMT_MAILTO"); addr != "" {
		c.mailto = addr
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ByDOI fetches the work registered under a DOI.
func (c *Client) ByDOI(ctx context.Context, doi string) (*reference.Partial, error) {
	if doi == "" {
		return nil, fmt.Errorf("%w: empty DOI", ErrNotFound)
	}

	body, err := c.get(ctx, c.baseURL+"/"+url.PathEscape(doi))
	if err != nil {
		return nil, err
	}

	var resp workResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing work: %v", ErrInvalidResponse, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidResponse, resp.Status)
	}

	return resp.Message.toPartial(), nil
}

// ByQuery runs a bibliographic search for a title, optionally narrowed by
// the first author's family name, and returns the best match.
func (c *Client) ByQuery(ctx context.Context, title, family string) (*reference.Partial, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", ErrNotFound)
	}

	q := url.Values{}
	q.Set("query.bibliographic", title)
	if family != "" {
		q.Set("query.author", family)
	}
	q.Set("rows", "1")

	body, err := c.get(ctx, c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing query results: %v", ErrInvalidResponse, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidResponse, resp.Status)
	}
	if len(resp.Message.Items) == 0 {
		return nil, ErrNotFound
	}

	return resp.Message.Items[0].toPartial(), nil
}

// get performs one rate-limited GET and returns the response body.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	return body, nil
}

func (c *Client) userAgent() string {
	if c.mailto != "" {
		return fmt.Sprintf("citefmt/1.0 (mailto:%s)", c.mailto)
	}
	return "citefmt/1.0"
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}
