package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Client wraps the Postgres connection pool shared by the event log and
// metric repositories.
type Client struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewClient creates a new Postgres client and verifies the connection
func NewClient(ctx context.Context, databaseURL string, log *zap.Logger) (*Client, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	log.Info("Postgres connection established successfully")

	return &Client{pool: pool, log: log}, nil
}

// Pool returns the underlying connection pool
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Ping checks if the Postgres connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the connection pool
func (c *Client) Close() {
	c.log.Info("Closing Postgres connection pool")
	c.pool.Close()
}

// InitSchema creates the event log and metric tables if they don't exist
func (c *Client) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id VARCHAR(64) PRIMARY KEY,
			event_type VARCHAR(64) NOT NULL,
			user_id VARCHAR(64),
			session_id VARCHAR(64),
			entity_id VARCHAR(64),
			entity_type VARCHAR(32),
			properties JSONB NOT NULL DEFAULT '{}',
			timestamp TIMESTAMPTZ NOT NULL,
			processed BOOLEAN NOT NULL DEFAULT FALSE,
			processed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type_timestamp ON events (event_type, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_unprocessed ON events (timestamp) WHERE NOT processed`,
		`CREATE TABLE IF NOT EXISTS sales_metrics (
			date DATE NOT NULL,
			product_id VARCHAR(64) NOT NULL,
			category_id VARCHAR(64),
			order_count BIGINT NOT NULL,
			quantity_sold BIGINT NOT NULL,
			revenue NUMERIC(14,2) NOT NULL,
			average_order_value NUMERIC(14,2),
			PRIMARY KEY (date, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS customer_metrics (
			customer_id VARCHAR(64) NOT NULL,
			date DATE NOT NULL,
			order_count BIGINT NOT NULL,
			total_revenue NUMERIC(14,2) NOT NULL,
			average_order_value NUMERIC(14,2),
			product_views BIGINT NOT NULL,
			last_order_date DATE,
			PRIMARY KEY (customer_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS product_performance (
			product_id VARCHAR(64) NOT NULL,
			date DATE NOT NULL,
			views BIGINT NOT NULL,
			unique_views BIGINT NOT NULL,
			orders BIGINT NOT NULL,
			quantity_sold BIGINT NOT NULL,
			revenue NUMERIC(14,2) NOT NULL,
			conversion_rate NUMERIC(7,4),
			PRIMARY KEY (product_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS revenue_metrics (
			date DATE NOT NULL,
			period_type VARCHAR(16) NOT NULL,
			total_revenue NUMERIC(14,2) NOT NULL,
			order_count BIGINT NOT NULL,
			average_order_value NUMERIC(14,2),
			refund_amount NUMERIC(14,2) NOT NULL,
			net_revenue NUMERIC(14,2) NOT NULL,
			PRIMARY KEY (date, period_type)
		)`,
	}

	for _, stmt := range statements {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	c.log.Info("Postgres schema initialized successfully")
	return nil
}
