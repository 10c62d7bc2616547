// Package vision is the OpenAI-compatible chat client the prompt generator
// uses. It is built once at startup in an explicit state instead of being
// created lazily on first use.
package vision

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

	apperrors "github.com/ugcforge/credvault/internal/errors"
)

// Defaults for Config fields left empty.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second

	probePrompt    = "Say 'Connection successful!'"
	probeMaxTokens = 10
)

var (
	// ErrNotConfigured indicates no API key was available at startup.
	ErrNotConfigured = apperrors.Wrap(apperrors.ErrUnavailable, "vision client not configured")

	// ErrInvalidAPIKey indicates the provider rejected the key (401/403).
	ErrInvalidAPIKey = apperrors.Wrap(apperrors.ErrUnauthorized, "vision api key rejected")

	// ErrUpstream indicates any other provider or transport failure.
	ErrUpstream = apperrors.Wrap(apperrors.ErrUnavailable, "vision api request failed")
)

// State is the client's readiness.
type State int

const (
	// StateUnconfigured means no API key was found; every call fails with
	// ErrNotConfigured.
	StateUnconfigured State = iota
	// StateReady means the client holds an API key. It does not imply the key
	// is valid; TestConnection checks that.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	default:
		return "unconfigured"
	}
}

// Config configures the HTTP transport.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// Proxy is an explicit proxy URL. When empty the standard HTTPS_PROXY,
	// HTTP_PROXY and NO_PROXY variables apply.
	Proxy string
}

// Client calls the chat completions endpoint.
type Client struct {
	state      State
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. An empty apiKey yields a StateUnconfigured
// client, not an error; only an unparsable proxy URL fails.
func NewClient(apiKey string, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	proxy := http.ProxyFromEnvironment
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid proxy url %q", cfg.Proxy)
		}
		proxy = http.ProxyURL(proxyURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy

	state := StateReady
	if apiKey == "" {
		state = StateUnconfigured
	}

	return &Client{
		state:      state,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		logger:     logger,
	}, nil
}

// State returns the client's readiness.
func (c *Client) State() State {
	return c.state
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single user message and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.state != StateReady {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrInvalidAPIKey, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var apiErr apiErrorResponse
		_ = json.Unmarshal(data, &apiErr)
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, apiErr.Error.Message)
	}

	var chat chatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrUpstream)
	}

	return chat.Choices[0].Message.Content, nil
}

// TestConnection sends a tiny probe completion and returns the model's reply.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	reply, err := c.Complete(ctx, probePrompt, probeMaxTokens)
	if err != nil {
		return "", err
	}
	c.logger.Info("vision connection verified", slog.String("model", c.model))
	return reply, nil
}
