package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/okian/mayday/pkg/logger"
)

// Handler upgrades HTTP requests into observer connections registered
// with the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewHandler creates the subscription endpoint handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Observers are anonymous; no auth model here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.Get().Named("ws"),
	}
}

// ServeHTTP handles GET /ws. The connection stays registered until the
// observer disconnects or a send fails. Inbound messages keep the
// connection alive but are otherwise ignored.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	conn := NewConn(sock, h.hub.sendQueueSize)
	h.hub.Register(conn)

	// Read loop: discard inbound frames, unregister on error. Runs on
	// the request goroutine so the handler returns when the observer
	// goes away.
	for {
		if _, _, err := sock.ReadMessage(); err != nil {
			h.hub.Unregister(conn)
			return
		}
	}
}
