// Package repository defines the append-only event log and its implementations.
package repository

import (
	"context"

	"github.com/okian/mayday/internal/domain/model"
)

// Store provides access to the durable event log. Events are
// write-once: there is no update operation. Append and Recent must be
// linearizable with respect to each other; a Recent call started after
// an Append returned must observe the appended event.
type Store interface {
	// Append adds a fully constructed event to the log.
	Append(ctx context.Context, e model.Event) error

	// Recent returns up to limit events, newest first. Ties on
	// timestamp resolve by insertion order. An empty log yields an
	// empty slice, not an error.
	Recent(ctx context.Context, limit int) ([]model.Event, error)

	// Count returns the number of events held by the log.
	Count(ctx context.Context) int

	// Purge removes all events. Administrative only; never called on
	// the hot path.
	Purge(ctx context.Context) error
}
