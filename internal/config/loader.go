package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if MAYDAY_CONFIG is set
//  3. env (prefix MAYDAY_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("MAYDAY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MAYDAY_ADDR, MAYDAY_SEND_QUEUE_SIZE, ...
	// Map env keys like MAYDAY_SEND_QUEUE_SIZE -> send_queue_size.
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("MAYDAY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mayday_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case cfg.DefaultEventsLimit < 1:
		return fmt.Errorf("%w: default_events_limit must be at least 1", ErrInvalidConfig)
	case cfg.MaxEventsLimit < cfg.DefaultEventsLimit:
		return fmt.Errorf("%w: max_events_limit must not be below default_events_limit", ErrInvalidConfig)
	case cfg.SendQueueSize < 1:
		return fmt.Errorf("%w: send_queue_size must be at least 1", ErrInvalidConfig)
	case cfg.WriteTimeoutMS < 1:
		return fmt.Errorf("%w: write_timeout_ms must be at least 1", ErrInvalidConfig)
	}
	return nil
}
