package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// outboxRepository implements the OutboxRepository interface using PostgreSQL.
type outboxRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOutboxRepository creates a new PostgreSQL-backed outbox repository.
func NewOutboxRepository(pool *pgxpool.Pool, logger zerolog.Logger) OutboxRepository {
	return &outboxRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "outbox").Logger(),
	}
}

// Append inserts an event within the provided transaction so it commits or
// rolls back together with the state change it describes.
func (r *outboxRepository) Append(ctx context.Context, tx pgx.Tx, aggregateID, eventType string, payload []byte) error {
	query := `
		INSERT INTO outbox_events (aggregate_id, event_type, payload)
		VALUES ($1, $2, $3)
	`

	if _, err := tx.Exec(ctx, query, aggregateID, eventType, payload); err != nil {
		r.logger.Error().
			Err(err).
			Str("aggregate_id", aggregateID).
			Str("event_type", eventType).
			Msg("failed to append outbox event")
		return fmt.Errorf("failed to append outbox event: %w", err)
	}

	return nil
}

// GetUnprocessed fetches up to limit pending events, oldest first.
func (r *outboxRepository) GetUnprocessed(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query outbox events")
		return nil, fmt.Errorf("failed to query outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan outbox event row")
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating outbox event rows")
		return nil, fmt.Errorf("error iterating outbox events: %w", err)
	}

	return events, nil
}

// MarkProcessed stamps an event as published.
func (r *outboxRepository) MarkProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET processed_at = now()
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		r.logger.Error().Err(err).Int64("event_id", id).Msg("failed to mark outbox event processed")
		return fmt.Errorf("failed to mark outbox event processed: %w", err)
	}

	return nil
}
