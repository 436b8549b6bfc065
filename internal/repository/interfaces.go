package repository

import (
	"context"
	"time"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// EventLogRepository defines the append-only raw event log.
type EventLogRepository interface {
	// Append durably records a raw event. Event IDs are deterministic, so a
	// redelivered message collides with its original write; Append reports
	// inserted=false for such duplicates and callers must skip aggregation.
	Append(ctx context.Context, event *domain.RawEvent) (inserted bool, err error)

	// MarkProcessed flips the processed flag after fan-out completes.
	MarkProcessed(ctx context.Context, id string, processedAt time.Time) error

	// FindUnprocessed returns events whose fan-out never completed, oldest
	// first. Used by reconciliation tooling.
	FindUnprocessed(ctx context.Context, limit int) ([]domain.RawEvent, error)

	// FindByTypeAndRange returns raw events of one type within a time range.
	FindByTypeAndRange(ctx context.Context, eventType string, from, to time.Time, limit int) ([]domain.RawEvent, error)
}

// MetricsRepository defines keyed storage for the four aggregate kinds.
// Get methods return (nil, nil) when no row exists for the key; upserts are
// atomic per key via unique constraints.
type MetricsRepository interface {
	GetSalesMetric(ctx context.Context, date time.Time, productID string) (*domain.SalesMetric, error)
	UpsertSalesMetric(ctx context.Context, metric *domain.SalesMetric) error
	ListSalesMetrics(ctx context.Context, from, to time.Time) ([]domain.SalesMetric, error)

	GetCustomerMetric(ctx context.Context, customerID string, date time.Time) (*domain.CustomerMetric, error)
	UpsertCustomerMetric(ctx context.Context, metric *domain.CustomerMetric) error
	ListCustomerMetrics(ctx context.Context, customerID string, from, to time.Time) ([]domain.CustomerMetric, error)

	GetProductPerformance(ctx context.Context, productID string, date time.Time) (*domain.ProductPerformance, error)
	UpsertProductPerformance(ctx context.Context, metric *domain.ProductPerformance) error
	ListProductPerformance(ctx context.Context, productID string, from, to time.Time) ([]domain.ProductPerformance, error)

	GetRevenueMetric(ctx context.Context, date time.Time, period domain.PeriodType) (*domain.RevenueMetric, error)
	UpsertRevenueMetric(ctx context.Context, metric *domain.RevenueMetric) error
	ListRevenueMetrics(ctx context.Context, period domain.PeriodType, from, to time.Time) ([]domain.RevenueMetric, error)
}
