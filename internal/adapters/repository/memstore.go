package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/mayday/internal/domain/model"
	"github.com/okian/mayday/pkg/metrics"
)

// MemoryStore implements Store with a mutex-guarded slice in insertion
// order. Good enough for single-process deployments and tests; swap in
// the Postgres store for durability across restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	events   []model.Event
	capacity int
}

// NewMemoryStore creates an in-memory event log.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithCapacity bounds the log; when full, the oldest events are
// evicted on append. Zero means unbounded.
func WithCapacity(capacity int) MemoryOption {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// Append adds an event to the log.
func (s *MemoryStore) Append(_ context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)
	if s.capacity > 0 && len(s.events) > s.capacity {
		s.events = slices.Delete(s.events, 0, len(s.events)-s.capacity)
	}

	metrics.RecordStoreAppend()
	metrics.UpdateStoredEvents(len(s.events))
	return nil
}

// Recent returns up to limit events, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]model.Event, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := min(limit, len(s.events))
	out := make([]model.Event, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// Count returns the number of stored events.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Purge removes all events.
func (s *MemoryStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	metrics.UpdateStoredEvents(0)
	return nil
}
