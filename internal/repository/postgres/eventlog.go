package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// EventLog implements repository.EventLogRepository on Postgres
type EventLog struct {
	client *Client
	log    *zap.Logger
}

// NewEventLog creates a new Postgres event log repository
func NewEventLog(client *Client, log *zap.Logger) *EventLog {
	return &EventLog{client: client, log: log}
}

// Append inserts a raw event. The primary key on id doubles as the
// idempotency check: a redelivered message produces the same deterministic id
// and the insert becomes a no-op reported as inserted=false.
func (r *EventLog) Append(ctx context.Context, event *domain.RawEvent) (bool, error) {
	tag, err := r.client.Pool().Exec(ctx, `
		INSERT INTO events (id, event_type, user_id, session_id, entity_id, entity_type, properties, timestamp, processed)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, FALSE)
		ON CONFLICT (id) DO NOTHING
	`, event.ID, event.EventType, event.UserID, event.SessionID, event.EntityID, event.EntityType,
		event.Properties, event.Timestamp)
	if err != nil {
		return false, fmt.Errorf("failed to append event: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkProcessed sets the processed flag and timestamp on one event
func (r *EventLog) MarkProcessed(ctx context.Context, id string, processedAt time.Time) error {
	tag, err := r.client.Pool().Exec(ctx, `
		UPDATE events SET processed = TRUE, processed_at = $2 WHERE id = $1
	`, id, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

// FindUnprocessed returns events left behind by partial failures, oldest first
func (r *EventLog) FindUnprocessed(ctx context.Context, limit int) ([]domain.RawEvent, error) {
	rows, err := r.client.Pool().Query(ctx, `
		SELECT id, event_type, COALESCE(user_id, ''), COALESCE(session_id, ''), COALESCE(entity_id, ''),
		       COALESCE(entity_type, ''), properties, timestamp, processed, processed_at
		FROM events
		WHERE NOT processed
		ORDER BY timestamp ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed events: %w", err)
	}
	defer rows.Close()

	return scanRawEvents(rows)
}

// FindByTypeAndRange returns raw events of one type within [from, to]
func (r *EventLog) FindByTypeAndRange(ctx context.Context, eventType string, from, to time.Time, limit int) ([]domain.RawEvent, error) {
	rows, err := r.client.Pool().Query(ctx, `
		SELECT id, event_type, COALESCE(user_id, ''), COALESCE(session_id, ''), COALESCE(entity_id, ''),
		       COALESCE(entity_type, ''), properties, timestamp, processed, processed_at
		FROM events
		WHERE event_type = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp DESC
		LIMIT $4
	`, eventType, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanRawEvents(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRawEvents(rows rowScanner) ([]domain.RawEvent, error) {
	events := []domain.RawEvent{}
	for rows.Next() {
		var ev domain.RawEvent
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.UserID, &ev.SessionID, &ev.EntityID,
			&ev.EntityType, &ev.Properties, &ev.Timestamp, &ev.Processed, &ev.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}
