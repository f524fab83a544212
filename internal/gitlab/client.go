// Package gitlab is a small client for the GitLab REST API (v4).
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/salmonumbrella/gitlab-cli/internal/debug"
	ctxerrors "github.com/salmonumbrella/gitlab-cli/internal/errors"
)

const (
	// DefaultBaseURL is used when no instance URL is configured.
	DefaultBaseURL = "https://gitlab.com"
	apiPrefix      = "/api/v4"
	defaultTimeout = 30 * time.Second
	tokenHeader    = "PRIVATE-TOKEN"
)

// Client is the GitLab API client
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	rateLimiter *RateLimitTracker
}

// NewClient creates a new GitLab API client with the given personal access token
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token:       token,
		baseURL:     DefaultBaseURL,
		rateLimiter: NewRateLimitTracker(),
	}
}

// WithHTTPClient sets a custom HTTP client
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithBaseURL sets the instance URL, e.g. https://gitlab.example.com.
// A trailing slash or /api/v4 suffix is accepted.
func (c *Client) WithBaseURL(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	baseURL = strings.TrimSuffix(baseURL, apiPrefix)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// BaseURL returns the instance URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithDebugOutput enables HTTP request/response logging to the provided writer.
func (c *Client) WithDebugOutput(w io.Writer) *Client {
	baseTransport := c.httpClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	c.httpClient.Transport = debug.NewDebugTransport(baseTransport, w)
	return c
}

// endpoint builds the absolute URL for an API path.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doRequest performs a single HTTP request. Failed requests are not retried.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	requestURL := c.endpoint(path, query)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, ctxerrors.WrapContext(method, requestURL, 0, fmt.Errorf("failed to create request: %w", err))
	}
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("gitlab request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctxerrors.WrapContext(method, requestURL, 0, fmt.Errorf("request failed: %w", err))
	}

	c.rateLimiter.Update(resp)
	if c.rateLimiter.IsLow() {
		info := c.rateLimiter.Get()
		slog.Warn("gitlab rate limit nearly exhausted", "remaining", info.Remaining, "limit", info.Limit)
	}

	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, ctxerrors.WrapContext(method, requestURL, resp.StatusCode, parseAPIError(resp))
	}

	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	resp, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// doGet performs a GET request with optional query parameters
func (c *Client) doGet(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

// doPost performs a POST request with optional query parameters and JSON body
func (c *Client) doPost(ctx context.Context, path string, query url.Values, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, query, body, result)
}

// projectPath returns the API path segment for a project ID or
// namespace/path, URL-encoded as GitLab expects.
func projectPath(project string) (string, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return "", fmt.Errorf("project ID is required")
	}
	return "/projects/" + url.PathEscape(project), nil
}
