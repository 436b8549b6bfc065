package search

import (
	"context"
	"time"
)

// EventDocument is a denormalized copy of a raw event for ad-hoc querying
type EventDocument struct {
	ID         string    `ch:"id"`
	EventID    string    `ch:"event_id"`
	EventType  string    `ch:"event_type"`
	UserID     string    `ch:"user_id"`
	SessionID  string    `ch:"session_id"`
	EntityID   string    `ch:"entity_id"`
	EntityType string    `ch:"entity_type"`
	Properties string    `ch:"properties"`
	Timestamp  time.Time `ch:"timestamp"`
	IndexedAt  time.Time `ch:"indexed_at"`
}

// EventIndexer defines the secondary event index. Writes are best-effort:
// callers log failures and continue, never aborting the primary pipeline.
type EventIndexer interface {
	Index(ctx context.Context, doc *EventDocument) error
	Delete(ctx context.Context, id string) error
}
