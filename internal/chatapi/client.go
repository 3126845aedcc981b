// Package chatapi is the wire client for the chat backend: one JSON POST
// per user message, one JSON object back.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Compile-time interface check.
var _ domain.ChatBackend = (*Client)(nil)

// DefaultEndpoint is where the dev backend listens.
const DefaultEndpoint = "http://localhost:5000/chat"

// ── Wire types ───────────────────────────────────────────────────

// Reply is a decoded 2xx body.
type Reply = domain.ChatReply

type request struct {
	Message string `json:"message"`
}

type response struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// StatusError is returned for any non-2xx response. It unwraps to
// domain.ErrTransport.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chatapi: unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return domain.ErrTransport }

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// Client posts messages to the chat endpoint.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	log       *logger.Logger
}

// NewClient creates a client for endpoint (the full URL of the chat
// resource, e.g. "http://localhost:5000/chat").
func NewClient(endpoint string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  endpoint,
		userAgent: "akira-terminal/1.0",
		http:      &http.Client{Timeout: 60 * time.Second},
		log:       log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Send delivers message and decodes the reply. Network failures, non-2xx
// statuses and undecodable bodies all satisfy errors.Is(err, domain.ErrTransport).
func (c *Client) Send(ctx context.Context, message string) (Reply, error) {
	jsonData, err := json.Marshal(request{Message: message})
	if err != nil {
		return Reply{}, fmt.Errorf("chatapi: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return Reply{}, fmt.Errorf("chatapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debug("chatapi: POST %s (%d bytes)", c.endpoint, len(jsonData))

	resp, err := c.http.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("chatapi: request failed: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Reply{}, fmt.Errorf("chatapi: read response: %w: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("chatapi: %s: %s", resp.Status, truncate(string(respBody), 120))
		return Reply{}, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var result response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Reply{}, fmt.Errorf("chatapi: unmarshal response: %w: %w", domain.ErrTransport, err)
	}

	c.log.Debug("chatapi: reply (%d chars): %s", len(result.Response), truncate(result.Response, 120))
	return Reply{Response: result.Response, Error: result.Error}, nil
}

// truncate shortens s to at most n runes for logging.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:max(n-3, 0)]) + "..."
}
