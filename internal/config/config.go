// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults and Load to layer
//   file/env sources on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of one audio submission.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// DefaultEventsLimit applies when GET /v1/events omits ?limit.
	DefaultEventsLimit int `koanf:"default_events_limit"`

	// MaxEventsLimit caps GET /v1/events?limit.
	MaxEventsLimit int `koanf:"max_events_limit"`

	// SendQueueSize bounds each observer connection's outbound queue.
	SendQueueSize int `koanf:"send_queue_size"`

	// WriteTimeoutMS bounds a single websocket send so one slow
	// observer cannot stall the writer.
	WriteTimeoutMS int `koanf:"write_timeout_ms"`

	// PostgresDSN selects the durable event log. Empty keeps the
	// in-memory store.
	PostgresDSN string `koanf:"postgres_dsn"`

	// DeepgramAPIKey authenticates transcription and synthesis calls.
	DeepgramAPIKey string `koanf:"deepgram_api_key"`

	// DeepgramVoice selects the synthesis voice model.
	DeepgramVoice string `koanf:"deepgram_voice"`

	// GroqAPIKey authenticates response generation calls.
	GroqAPIKey string `koanf:"groq_api_key"`

	// GroqModel selects the chat-completion model.
	GroqModel string `koanf:"groq_model"`

	// Per-adapter request timeouts.
	STTTimeoutMS int `koanf:"stt_timeout_ms"`
	LLMTimeoutMS int `koanf:"llm_timeout_ms"`
	TTSTimeoutMS int `koanf:"tts_timeout_ms"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use
// and currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		MaxUploadBytes:     10 << 20, // 10 MiB of audio
		DefaultEventsLimit: 50,
		MaxEventsLimit:     500,
		SendQueueSize:      64,
		WriteTimeoutMS:     2_000,
		DeepgramVoice:      "aura-2-thalia-en",
		GroqModel:          "llama-3.3-70b-versatile",
		STTTimeoutMS:       30_000,
		LLMTimeoutMS:       20_000,
		TTSTimeoutMS:       30_000,
	}
}
