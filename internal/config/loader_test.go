package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/mayday/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(10<<20))
				convey.So(cfg.DefaultEventsLimit, convey.ShouldEqual, 50)
				convey.So(cfg.MaxEventsLimit, convey.ShouldEqual, 500)
				convey.So(cfg.SendQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WriteTimeoutMS, convey.ShouldEqual, 2000)
				convey.So(cfg.PostgresDSN, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MAYDAY_ADDR", ":8080")
			_ = os.Setenv("MAYDAY_SEND_QUEUE_SIZE", "128")
			_ = os.Setenv("MAYDAY_MAX_EVENTS_LIMIT", "1000")
			_ = os.Setenv("MAYDAY_WRITE_TIMEOUT_MS", "500")
			_ = os.Setenv("MAYDAY_GROQ_MODEL", "llama-3.1-8b-instant")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SendQueueSize, convey.ShouldEqual, 128)
				convey.So(cfg.MaxEventsLimit, convey.ShouldEqual, 1000)
				convey.So(cfg.WriteTimeoutMS, convey.ShouldEqual, 500)
				convey.So(cfg.GroqModel, convey.ShouldEqual, "llama-3.1-8b-instant")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
log_level: "debug"
send_queue_size: 32
default_events_limit: 25
max_events_limit: 250
deepgram_voice: "aura-2-orion-en"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MAYDAY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SendQueueSize, convey.ShouldEqual, 32)
				convey.So(cfg.DefaultEventsLimit, convey.ShouldEqual, 25)
				convey.So(cfg.MaxEventsLimit, convey.ShouldEqual, 250)
				convey.So(cfg.DeepgramVoice, convey.ShouldEqual, "aura-2-orion-en")
			})
		})

		convey.Convey("When env vars override a YAML file", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MAYDAY_CONFIG", tmpFile)
			_ = os.Setenv("MAYDAY_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env takes precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config is invalid", func() {
			_ = os.Setenv("MAYDAY_SEND_QUEUE_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an invalid-config error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("MAYDAY_CONFIG", "/nonexistent/mayday.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"MAYDAY_CONFIG",
		"MAYDAY_ADDR",
		"MAYDAY_LOG_LEVEL",
		"MAYDAY_MAX_UPLOAD_BYTES",
		"MAYDAY_DEFAULT_EVENTS_LIMIT",
		"MAYDAY_MAX_EVENTS_LIMIT",
		"MAYDAY_SEND_QUEUE_SIZE",
		"MAYDAY_WRITE_TIMEOUT_MS",
		"MAYDAY_POSTGRES_DSN",
		"MAYDAY_DEEPGRAM_API_KEY",
		"MAYDAY_DEEPGRAM_VOICE",
		"MAYDAY_GROQ_API_KEY",
		"MAYDAY_GROQ_MODEL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "mayday-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}
