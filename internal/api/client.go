// Package api is the HTTP client for the coffee-shop backend. Auth rides on
// a session cookie held in the client's jar; no token is attached manually.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"qoyupos/internal/logging"
)

// Client talks to the backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8000".
// The cookie jar never fails with a nil PublicSuffixList.
func New(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// SocketURL converts an API path into the matching websocket URL,
// e.g. "/orders/ws" -> "ws://host:8000/orders/ws".
func (c *Client) SocketURL(path string) string {
	u := c.baseURL + path
	if strings.HasPrefix(u, "https") {
		return "wss" + strings.TrimPrefix(u, "https")
	}
	return "ws" + strings.TrimPrefix(u, "http")
}

// Jar exposes the cookie jar so socket dials can present the session cookie.
func (c *Client) Jar() http.CookieJar { return c.http.Jar }

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/health", nil)
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, "", out)
}

// postJSON performs a POST with a JSON body, decoding the response into out
// when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// doForm performs a form-encoded request. The backend's admin mutations take
// form fields rather than JSON bodies.
func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	return c.doJSON(ctx, method, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	reqID := uuid.NewString()[:8]
	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Get(logging.CategoryAPI).Warn("[req:%s] %s %s: %v", reqID, method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	logging.APIDebug("[req:%s] %s %s -> %d (%d bytes)", reqID, method, path, resp.StatusCode, len(data))

	if resp.StatusCode >= 400 {
		return newStatusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
