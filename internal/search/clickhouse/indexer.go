package clickhouse

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/search"
)

// Indexer implements search.EventIndexer for ClickHouse
type Indexer struct {
	client *Client
	log    *zap.Logger
}

// NewIndexer creates a new ClickHouse event indexer
func NewIndexer(client *Client, log *zap.Logger) *Indexer {
	return &Indexer{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the ClickHouse schema for the event index
func (i *Indexer) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS event_documents (
		id String,
		event_id String,
		event_type LowCardinality(String),
		user_id String,
		session_id String,
		entity_id String,
		entity_type LowCardinality(String),
		properties String,
		timestamp DateTime64(3),
		indexed_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = MergeTree
	PRIMARY KEY (event_type, timestamp)
	ORDER BY (event_type, timestamp, id)
	PARTITION BY toYYYYMM(timestamp)
	SETTINGS index_granularity = 8192
	`

	if err := i.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create event_documents table: %w", err)
	}

	i.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// Index writes one denormalized event document
func (i *Indexer) Index(ctx context.Context, doc *search.EventDocument) error {
	batch, err := i.client.Conn().PrepareBatch(ctx, "INSERT INTO event_documents")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	properties := doc.Properties
	if properties == "" {
		properties = "{}"
	}

	err = batch.Append(
		doc.ID,
		doc.EventID,
		doc.EventType,
		doc.UserID,
		doc.SessionID,
		doc.EntityID,
		doc.EntityType,
		properties,
		doc.Timestamp,
		doc.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append document to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

// Delete removes a document from the index
func (i *Indexer) Delete(ctx context.Context, id string) error {
	if err := i.client.Conn().Exec(ctx, "ALTER TABLE event_documents DELETE WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Ping checks if the ClickHouse connection is alive
func (i *Indexer) Ping(ctx context.Context) error {
	return i.client.Conn().Ping(ctx)
}
