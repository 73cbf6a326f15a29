package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"videogen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("llm: api key is required")

// ErrEmptyResponse is returned when the completion carries no message content.
var ErrEmptyResponse = errors.New("llm: no content in response")

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "anthropic/claude-sonnet-4"
	defaultTemperature = 0.3
	defaultMaxTokens   = 12000
	errorBodyLimit     = 2048
)

// Options configures the chat-completions client.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Referer     string
	Title       string
	// Temperature is sent as given, including 0. Nil selects the default.
	Temperature *float64
	MaxTokens   int
	HTTPClient  *http.Client
	Logger      *infra.Logger
}

// Client talks to an OpenRouter-compatible chat-completions endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	referer     string
	title       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *infra.Logger
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: upstream status %d: %s", e.StatusCode, e.Body)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient builds a client. A missing key is not an error here; Ready
// reports it so callers can fail before any request is attempted.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	temperature := defaultTemperature
	if opts.Temperature != nil && *opts.Temperature >= 0 {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// No client-side timeout: the caller's context governs the call.
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		model:       model,
		referer:     strings.TrimSpace(opts.Referer),
		title:       strings.TrimSpace(opts.Title),
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// Model returns the resolved model identifier.
func (c *Client) Model() string { return c.model }

// Ready reports whether the client has credentials.
func (c *Client) Ready() error {
	if c == nil || c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Complete sends a system+user conversation and returns the first message content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	c.logger.Debug().Str("model", c.model).Int("prompt_chars", len(user)).Msg("llm: sending completion")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm: http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := out.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	c.logger.Debug().Str("model", c.model).Int("response_chars", len(text)).Msg("llm: completion received")
	return text, nil
}
