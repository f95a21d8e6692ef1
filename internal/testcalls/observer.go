package testcalls

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/okian/mayday/pkg/logger"
)

// Observer subscribes to the live feed and collects broadcast events.
type Observer struct {
	conn *websocket.Conn

	mu     sync.Mutex
	events []Event

	done chan struct{}
}

// startObserver dials /ws and starts collecting broadcast frames.
func startObserver(ctx context.Context, config *Config) (*Observer, error) {
	wsURL := strings.Replace(config.BaseURL, "http", "ws", 1) + "/ws"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	o := &Observer{
		conn: conn,
		done: make(chan struct{}),
	}
	go o.readLoop(ctx)

	logger.Get().Info(ctx, "observer connected", logger.String("url", wsURL))
	return o, nil
}

func (o *Observer) readLoop(ctx context.Context) {
	defer close(o.done)
	for {
		_, payload, err := o.conn.ReadMessage()
		if err != nil {
			return
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Get().Warn(ctx, "observer received malformed frame", logger.Error(err))
			continue
		}
		o.mu.Lock()
		o.events = append(o.events, event)
		o.mu.Unlock()
	}
}

// Events returns a snapshot of everything observed so far.
func (o *Observer) Events() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// Close tears the connection down and waits for the reader to exit.
func (o *Observer) Close() {
	_ = o.conn.Close()
	<-o.done
}
