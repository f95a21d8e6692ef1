// Package deepgram adapts the Deepgram pre-recorded listen API to the
// pipeline's transcription boundary.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/mayday/pkg/logger"
)

const defaultListenURL = "https://api.deepgram.com/v1/listen"

// Default request configuration.
const (
	defaultModel   = "nova-3"
	defaultTimeout = 30 * time.Second
)

// Client transcribes recorded audio through the Deepgram listen endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithModel selects the transcription model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds one transcription request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBaseURL overrides the listen endpoint. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewClient creates a transcription client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultListenURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Get().Named("deepgram-stt"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listenResponse mirrors the slice of the Deepgram response we consume.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe converts raw audio bytes to text. An unreachable API, a
// non-2xx status or an unparseable body all surface as ErrTranscribe.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	listenURL, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscribe, err)
	}
	queryParams := listenURL.Query()
	queryParams.Set("model", c.model)
	queryParams.Set("smart_format", "true")
	listenURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, listenURL.String(), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscribe, err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscribe, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn(ctx, "transcription request rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)),
		)
		return "", fmt.Errorf("%w: unexpected status %d", ErrTranscribe, resp.StatusCode)
	}

	var parsed listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscribe, err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("%w: empty result set", ErrTranscribe)
	}

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
