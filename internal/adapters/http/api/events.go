// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/mayday/internal/domain/model"
)

// EventDependencies defines the interface for event queries.
type EventDependencies interface {
	Recent(ctx context.Context, limit int) ([]model.Event, error)
}

// EventsHandler handles event feed requests.
type EventsHandler struct {
	deps         EventDependencies
	defaultLimit int
	maxLimit     int
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, defaultLimit, maxLimit int) *EventsHandler {
	return &EventsHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// HandleGetEvents handles GET /v1/events?limit=N requests.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	events, err := h.deps.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events)})
}
