package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/mayday/internal/adapters/http/api"
	"github.com/okian/mayday/internal/adapters/http/swagger"
	groq "github.com/okian/mayday/internal/adapters/llm/groq"
	"github.com/okian/mayday/internal/adapters/repository"
	stt "github.com/okian/mayday/internal/adapters/stt/deepgram"
	tts "github.com/okian/mayday/internal/adapters/tts/deepgram"
	"github.com/okian/mayday/internal/adapters/ws"
	app "github.com/okian/mayday/internal/app"
	"github.com/okian/mayday/internal/config"
	"github.com/okian/mayday/pkg/logger"
	"github.com/okian/mayday/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 30 * time.Second
	writeTimeout              = 60 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// with the custom system metrics below.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Event store: Postgres when a DSN is configured, in-memory otherwise.
	var store repository.Store
	if cfg.PostgresDSN != "" {
		pg, err := repository.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			os.Stderr.WriteString("failed to connect to postgres: " + err.Error() + "\n")
			return
		}
		store = pg
		loggerInstance.Info(ctx, "using postgres event store")
	} else {
		store = repository.NewMemoryStore()
		loggerInstance.Info(ctx, "using in-memory event store")
	}

	hub := ws.NewHub(
		ws.WithSendQueueSize(cfg.SendQueueSize),
		ws.WithWriteTimeout(time.Duration(cfg.WriteTimeoutMS)*time.Millisecond),
	)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithTranscriber(stt.NewClient(cfg.DeepgramAPIKey,
			stt.WithTimeout(time.Duration(cfg.STTTimeoutMS)*time.Millisecond),
		)),
		app.WithGenerator(groq.NewClient(cfg.GroqAPIKey,
			groq.WithModel(cfg.GroqModel),
			groq.WithTimeout(time.Duration(cfg.LLMTimeoutMS)*time.Millisecond),
		)),
		app.WithSynthesizer(tts.NewClient(cfg.DeepgramAPIKey,
			tts.WithVoice(cfg.DeepgramVoice),
			tts.WithTimeout(time.Duration(cfg.TTSTimeoutMS)*time.Millisecond),
		)),
		app.WithStore(store),
		app.WithHub(hub),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc,
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithEventLimits(cfg.DefaultEventsLimit, cfg.MaxEventsLimit),
		api.WithWSHandler(ws.NewHandler(hub)),
	)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	// GetStats already refreshes the gauges it owns; keep the stored
	// event gauge in sync here as well.
	if stored, ok := stats["storedEvents"].(int); ok {
		metrics.UpdateStoredEvents(stored)
	}
}
