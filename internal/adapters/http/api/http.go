// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/mayday/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Process runs one call through the full dispatch pipeline.
	Process(ctx context.Context, audio []byte) (model.Event, error)

	// Recent returns up to limit stored events, newest first.
	Recent(ctx context.Context, limit int) ([]model.Event, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	callsHandler     *CallsHandler
	eventsHandler    *EventsHandler
	dashboardHandler *dashboardHandler

	wsHandler http.Handler
}

// Option customizes handler limits.
type Option func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
	defaultLimit   int
	maxLimit       int
	ws             http.Handler
}

// WithMaxUploadBytes caps the size of an uploaded call recording.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithEventLimits sets the default and maximum page size for event queries.
func WithEventLimits(def, max int) Option {
	return func(c *serverConfig) {
		if def > 0 {
			c.defaultLimit = def
		}
		if max > 0 {
			c.maxLimit = max
		}
	}
}

// WithWSHandler attaches the live observer endpoint.
func WithWSHandler(h http.Handler) Option {
	return func(c *serverConfig) {
		c.ws = h
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{
		maxUploadBytes: 10 << 20,
		defaultLimit:   50,
		maxLimit:       500,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		callsHandler:     NewCallsHandler(deps, cfg.maxUploadBytes),
		eventsHandler:    NewEventsHandler(deps, cfg.defaultLimit, cfg.maxLimit),
		dashboardHandler: newdashboardHandler(),
		wsHandler:        cfg.ws,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/calls", MetricsMiddleware(s.callsHandler.HandlePostCall, "calls"))
	mux.HandleFunc("/v1/events", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "events"))
	if s.wsHandler != nil {
		mux.Handle("/ws", s.wsHandler)
	}
}

// eventsResponse mirrors the OpenAPI schema for GET /v1/events.
type eventsResponse struct {
	Events []model.Event `json:"events"`
	Count  int           `json:"count"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
