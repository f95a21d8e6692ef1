// Package deepgram adapts the Deepgram speak API to the pipeline's
// speech-synthesis boundary.
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
)

const defaultSpeakURL = "https://api.deepgram.com/v1/speak"

// Default request configuration.
const (
	defaultVoice   = "aura-2-thalia-en"
	defaultTimeout = 30 * time.Second
)

// Client synthesizes reply text through the Deepgram speak endpoint.
type Client struct {
	apiKey     string
	voice      string
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithVoice selects the synthesis voice model.
func WithVoice(voice string) Option {
	return func(c *Client) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithTimeout bounds one synthesis request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBaseURL overrides the speak endpoint. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewClient creates a synthesis client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		voice:      defaultVoice,
		baseURL:    defaultSpeakURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Synthesize converts reply text to audio bytes. Failures surface as
// ErrSynthesize; the caller treats a failed synthesis as a degraded
// event, not a failed submission.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	speakURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesize, err)
	}
	queryParams := speakURL.Query()
	queryParams.Set("model", c.voice)
	speakURL.RawQuery = queryParams.Encode()

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesize, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, speakURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesize, err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesize, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSynthesize, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesize, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio stream", ErrSynthesize)
	}
	return audio, nil
}
