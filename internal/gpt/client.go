// Package gpt lets the dev backend answer with a hosted model. Client
// speaks the chat-completions wire format (Azure OpenAI or any compatible
// server); Session keeps one conversation's history on top of it.
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/akira/internal/logger"
)

// Environment the dev backend reads to enable the model.
const (
	EnvChatKey      = "GPT_CHAT_KEY"
	EnvChatEndpoint = "GPT_CHAT_ENDPOINT"
)

// ErrNoChoices is returned when the model answers with nothing.
var ErrNoChoices = errors.New("gpt: empty response (no choices)")

// APIError is a non-200 answer from the endpoint.
type APIError struct {
	Status string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gpt: API %s: %s", e.Status, e.Body)
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
	Model       string    `json:"model,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel names the model. Azure deployments encode it in the URL and
// leave this empty.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.req.Model = model }
}

// WithSampling sets temperature and top_p.
func WithSampling(temperature, topP float64) ClientOption {
	return func(c *Client) {
		c.req.Temperature = temperature
		c.req.TopP = topP
	}
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.req.MaxTokens = n }
}

// WithHTTPClient replaces the HTTP client (30s timeout by default).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client posts conversations to one chat-completions URL. Safe for
// concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	req      completionRequest // settings; Messages is filled per call
	http     *http.Client
	log      *logger.Logger
}

// NewClient creates a client for the full chat/completions URL. The key is
// sent as "api-key" for Azure and as a bearer token for everything else.
func NewClient(endpoint, apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		req:      completionRequest{Temperature: 0.7, TopP: 0.95, MaxTokens: 800},
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chat returns the model's reply to messages.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	body := c.req
	body.Messages = messages
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("gpt: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("gpt: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gpt: request failed: %w", err)
	}
	defer resp.Body.Close()

	reply, err := decodeReply(resp)
	if err != nil {
		return "", err
	}
	c.log.Debug("%d messages -> %d chars in %s: %q",
		len(messages), len(reply), time.Since(start).Round(time.Millisecond), truncate(reply, 80))
	return reply, nil
}

func decodeReply(resp *http.Response) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("gpt: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.Status, Body: truncate(string(raw), 200)}
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gpt: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoChoices
	}
	return out.Choices[0].Message.Content, nil
}

// truncate shortens s to at most n runes for logging.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:max(n-3, 0)]) + "..."
}
