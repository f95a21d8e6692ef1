// Package ws maintains the set of live observer connections and fans
// completed events out to them.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/okian/mayday/internal/domain/model"
	"github.com/okian/mayday/pkg/logger"
	"github.com/okian/mayday/pkg/metrics"
)

// Default hub configuration constants.
const (
	defaultSendQueueSize = 64
	defaultWriteTimeout  = 2 * time.Second
)

// Hub owns the observer connection registry. Registration,
// unregistration and publishing are safe for concurrent use; a failure
// on one connection never affects delivery to another.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn

	sendQueueSize int
	writeTimeout  time.Duration

	logger logger.Logger
}

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithSendQueueSize bounds each connection's outbound queue.
func WithSendQueueSize(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.sendQueueSize = size
		}
	}
}

// WithWriteTimeout bounds a single send so one slow observer cannot
// stall its writer.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(h *Hub) {
		if timeout > 0 {
			h.writeTimeout = timeout
		}
	}
}

// NewHub creates a hub with configuration options.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		conns:         make(map[string]*Conn),
		sendQueueSize: defaultSendQueueSize,
		writeTimeout:  defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = logger.Get().Named("hub")
	return h
}

// Register adds an observer connection and starts its writer.
func (h *Hub) Register(conn *Conn) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	count := len(h.conns)
	h.mu.Unlock()

	go conn.writeLoop(h)

	metrics.UpdateWSConnections(count)
	h.logger.Info(context.Background(), "observer connected",
		logger.String("conn", conn.ID()),
		logger.Int("connections", count),
	)
}

// Unregister removes an observer connection and closes it. Removing a
// connection that is not registered is a no-op.
func (h *Hub) Unregister(conn *Conn) {
	h.mu.Lock()
	_, present := h.conns[conn.ID()]
	if present {
		delete(h.conns, conn.ID())
	}
	count := len(h.conns)
	h.mu.Unlock()

	if !present {
		return
	}

	conn.close()

	metrics.UpdateWSConnections(count)
	h.logger.Info(context.Background(), "observer disconnected",
		logger.String("conn", conn.ID()),
		logger.Int("connections", count),
	)
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Publish serializes the event once and attempts delivery to every
// connection registered at call start. Delivery is best-effort and
// non-blocking: a connection whose outbound queue is full is treated
// as dead and unregistered. Publish never returns an error to the
// pipeline.
func (h *Hub) Publish(ctx context.Context, e model.Event) {
	start := time.Now()
	defer func() {
		metrics.RecordPublishLatency(float64(time.Since(start).Milliseconds()))
	}()

	payload, err := json.Marshal(e)
	if err != nil {
		// Events are plain structs; this only fires on a programming error.
		h.logger.Error(ctx, "event serialization failed",
			logger.String("event", e.ID),
			logger.Error(err),
		)
		return
	}

	h.mu.RLock()
	snapshot := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		if !c.enqueue(payload) {
			metrics.RecordBroadcastDropped()
			h.logger.Warn(ctx, "dropping slow observer",
				logger.String("conn", c.ID()),
				logger.String("event", e.ID),
			)
			h.Unregister(c)
		}
	}

	h.logger.Debug(ctx, "event broadcast",
		logger.String("event", e.ID),
		logger.Int("observers", len(snapshot)),
	)
}
