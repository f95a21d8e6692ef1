// Package groq adapts the Groq chat-completions API to the pipeline's
// response-generation boundary.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/mayday/internal/domain/model"
)

const defaultCompletionsURL = "https://api.groq.com/openai/v1/chat/completions"

// Default request configuration.
const (
	defaultModel   = "llama-3.3-70b-versatile"
	defaultTimeout = 20 * time.Second
)

const systemPrompt = `You are an emergency response assistant. Based on the ` +
	`emergency category and severity, generate a professional, helpful and ` +
	`urgent response. Acknowledge the emergency, give immediate safety advice, ` +
	`recommend concrete actions and reassure the caller that help is being ` +
	`dispatched when applicable. Keep the response concise. Plain text only, ` +
	`no markdown.`

type messageRole string

const (
	messageRoleSystem messageRole = "system"
	messageRoleUser   messageRole = "user"
)

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client generates reply text through the Groq chat-completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithModel selects the chat-completion model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds one generation request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBaseURL overrides the completions endpoint. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewClient creates a response-generation client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultCompletionsURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate produces reply text for a classified transcript. Success
// always carries non-empty text; an empty completion is an error, not
// a silent fallback.
func (c *Client) Generate(ctx context.Context, category model.Category, severity int, transcript string) (string, error) {
	prompt := fmt.Sprintf(
		"Emergency category: %s\nSeverity: %d/10\nCaller message: %q",
		category, severity, transcript,
	)

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: messageRoleSystem, Content: systemPrompt},
			{Role: messageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrGenerate, resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrGenerate)
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerate)
	}
	return reply, nil
}
