package aggregate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
	"github.com/Hobbit71/cloudshop/internal/repository"
)

// Customer maintains the per-(customer, date) activity rollup. Orders and
// product views are independent write paths merging into the same row.
type Customer struct {
	metrics repository.MetricsRepository
	locks   *keyMutex
	log     *zap.Logger
}

// NewCustomer creates a new customer aggregator
func NewCustomer(metrics repository.MetricsRepository, log *zap.Logger) *Customer {
	return &Customer{
		metrics: metrics,
		locks:   newKeyMutex(),
		log:     log,
	}
}

// ApplyOrder merges one order into the customer's row for the order date
func (a *Customer) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	if event.CustomerID == "" {
		return nil
	}

	date := domain.MetricDate(event.Timestamp)

	unlock := a.locks.Lock(dateKey("customer", date, event.CustomerID))
	defer unlock()

	metric, err := a.metrics.GetCustomerMetric(ctx, event.CustomerID, date)
	if err != nil {
		return fmt.Errorf("failed to load customer metric: %w", err)
	}

	if metric == nil {
		metric = &domain.CustomerMetric{
			CustomerID:    event.CustomerID,
			Date:          date,
			OrderCount:    1,
			TotalRevenue:  event.TotalAmount,
			LastOrderDate: &date,
		}
	} else {
		metric.OrderCount++
		metric.TotalRevenue = metric.TotalRevenue.Add(event.TotalAmount)
		metric.LastOrderDate = &date
	}

	metric.AverageOrderValue = averageValue(metric.TotalRevenue, metric.OrderCount)

	if err := a.metrics.UpsertCustomerMetric(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert customer metric: %w", err)
	}

	a.log.Debug("Updated customer metric",
		zap.String("customer_id", event.CustomerID),
		zap.Time("date", date))
	return nil
}

// ApplyView increments the customer's product view counter. Anonymous views
// carry no user and are skipped.
func (a *Customer) ApplyView(ctx context.Context, event *domain.ProductViewedEvent) error {
	if event.UserID == "" {
		return nil
	}

	date := domain.MetricDate(event.Timestamp)

	unlock := a.locks.Lock(dateKey("customer", date, event.UserID))
	defer unlock()

	metric, err := a.metrics.GetCustomerMetric(ctx, event.UserID, date)
	if err != nil {
		return fmt.Errorf("failed to load customer metric: %w", err)
	}

	if metric == nil {
		metric = &domain.CustomerMetric{
			CustomerID:   event.UserID,
			Date:         date,
			TotalRevenue: decimal.Zero,
			ProductViews: 1,
		}
	} else {
		metric.ProductViews++
	}

	if err := a.metrics.UpsertCustomerMetric(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert customer metric: %w", err)
	}

	a.log.Debug("Updated customer product views",
		zap.String("customer_id", event.UserID),
		zap.Time("date", date))
	return nil
}

// ApplyRegistration seeds a zeroed row for a newly registered customer.
// An existing row (e.g. from an earlier view on the same day) is left intact.
func (a *Customer) ApplyRegistration(ctx context.Context, event *domain.CustomerRegisteredEvent) error {
	date := domain.MetricDate(event.Timestamp)

	unlock := a.locks.Lock(dateKey("customer", date, event.CustomerID))
	defer unlock()

	metric, err := a.metrics.GetCustomerMetric(ctx, event.CustomerID, date)
	if err != nil {
		return fmt.Errorf("failed to load customer metric: %w", err)
	}
	if metric != nil {
		return nil
	}

	metric = &domain.CustomerMetric{
		CustomerID:   event.CustomerID,
		Date:         date,
		TotalRevenue: decimal.Zero,
	}

	if err := a.metrics.UpsertCustomerMetric(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert customer metric: %w", err)
	}

	a.log.Debug("Initialized customer metric",
		zap.String("customer_id", event.CustomerID),
		zap.Time("date", date))
	return nil
}
