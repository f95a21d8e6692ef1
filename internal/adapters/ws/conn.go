package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/mayday/pkg/logger"
	"github.com/okian/mayday/pkg/metrics"
)

// Sender is the write half of an observer connection. Satisfied by
// *websocket.Conn; tests substitute their own.
type Sender interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Conn is one observer connection. Its lifecycle is
// Connecting -> Open -> Closed; Closed is terminal, a reconnecting
// observer registers a fresh Conn.
type Conn struct {
	id     string
	sender Sender

	out  chan []byte
	done chan struct{}

	closeOnce sync.Once
}

// NewConn wraps a sender into a hub connection with a bounded outbound
// queue.
func NewConn(sender Sender, queueSize int) *Conn {
	if queueSize < 1 {
		queueSize = defaultSendQueueSize
	}
	return &Conn{
		id:     uuid.NewString(),
		sender: sender,
		out:    make(chan []byte, queueSize),
		done:   make(chan struct{}),
	}
}

// ID returns the connection's unique identity.
func (c *Conn) ID() string {
	return c.id
}

// enqueue offers a payload to the outbound queue without blocking.
// Returns false when the connection is closed or the queue is full.
func (c *Conn) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.out <- payload:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// close marks the connection Closed and tears down the socket. The out
// channel is never closed so concurrent publishers can never send on a
// closed channel; the writer exits via done instead.
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.sender.Close()
	})
}

// writeLoop drains the outbound queue onto the socket, one bounded
// write at a time. A failed write closes the connection.
func (c *Conn) writeLoop(h *Hub) {
	log := h.logger
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.out:
			_ = c.sender.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := c.sender.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Warn(context.Background(), "observer send failed",
					logger.String("conn", c.id),
					logger.Error(err),
				)
				metrics.RecordBroadcastDropped()
				h.Unregister(c)
				return
			}
			metrics.RecordBroadcastDelivered()
		}
	}
}
