package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/mayday/internal/domain/model"
	"github.com/okian/mayday/pkg/logger"
	"github.com/okian/mayday/pkg/metrics"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	transcript  TEXT NOT NULL,
	category    TEXT NOT NULL,
	severity    INT NOT NULL,
	reply_text  TEXT NOT NULL,
	reply_audio BYTEA,
	created_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore implements Store on top of a pgx connection pool.
// Recency reads order by the serial seq column, so insertion order
// breaks timestamp ties.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore connects to the given DSN and ensures the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PostgresStore{
		pool:   pool,
		logger: logger.Get().Named("postgres-store"),
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("ensure events schema: %w", err)
	}
	return nil
}

// Append inserts one event.
func (s *PostgresStore) Append(ctx context.Context, e model.Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, transcript, category, severity, reply_text, reply_audio, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Transcript, string(e.Category), e.Severity, e.ReplyText, e.ReplyAudio, e.CreatedAt,
	)
	if err != nil {
		metrics.RecordStoreAppendError()
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	metrics.RecordStoreAppend()
	return nil
}

// Recent returns up to limit events, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.pool.Query(ctx,
		`SELECT id, transcript, category, severity, reply_text, reply_audio, created_at
		 FROM events ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, limit)
	for rows.Next() {
		var e model.Event
		var category string
		if err := rows.Scan(&e.ID, &e.Transcript, &category, &e.Severity, &e.ReplyText, &e.ReplyAudio, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		e.Category = model.Category(category)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return out, nil
}

// Count returns the number of stored events, or zero when the count
// query fails.
func (s *PostgresStore) Count(ctx context.Context) int {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&count); err != nil {
		s.logger.Warn(ctx, "event count failed", logger.Error(err))
		return 0
	}
	return count
}

// Purge removes all events. Administrative only.
func (s *PostgresStore) Purge(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
