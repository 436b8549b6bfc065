package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
	"github.com/Hobbit71/cloudshop/internal/repository"
)

// Revenue maintains the per-(date, period) revenue rollup. The pipeline only
// writes DAILY rows; coarser periods are rolled up by reporting jobs.
type Revenue struct {
	metrics repository.MetricsRepository
	locks   *keyMutex
	log     *zap.Logger
}

// NewRevenue creates a new revenue aggregator
func NewRevenue(metrics repository.MetricsRepository, log *zap.Logger) *Revenue {
	return &Revenue{
		metrics: metrics,
		locks:   newKeyMutex(),
		log:     log,
	}
}

// ApplyOrder merges an order's total into the daily revenue row
func (a *Revenue) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	return a.upsert(ctx, domain.MetricDate(event.Timestamp), event.TotalAmount)
}

// ApplyPayment merges a captured payment into the daily revenue row
func (a *Revenue) ApplyPayment(ctx context.Context, event *domain.PaymentCompletedEvent) error {
	return a.upsert(ctx, domain.MetricDate(event.Timestamp), event.Amount)
}

func (a *Revenue) upsert(ctx context.Context, date time.Time, amount decimal.Decimal) error {
	unlock := a.locks.Lock(dateKey("revenue", date, string(domain.PeriodDaily)))
	defer unlock()

	metric, err := a.metrics.GetRevenueMetric(ctx, date, domain.PeriodDaily)
	if err != nil {
		return fmt.Errorf("failed to load revenue metric: %w", err)
	}

	if metric == nil {
		metric = &domain.RevenueMetric{
			Date:         date,
			PeriodType:   domain.PeriodDaily,
			TotalRevenue: amount,
			OrderCount:   1,
			RefundAmount: decimal.Zero,
		}
	} else {
		metric.TotalRevenue = metric.TotalRevenue.Add(amount)
		metric.OrderCount++
	}

	metric.NetRevenue = metric.TotalRevenue.Sub(metric.RefundAmount)
	metric.AverageOrderValue = averageValue(metric.TotalRevenue, metric.OrderCount)

	if err := a.metrics.UpsertRevenueMetric(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert revenue metric: %w", err)
	}

	a.log.Debug("Updated revenue metric",
		zap.Time("date", date),
		zap.String("period", string(domain.PeriodDaily)))
	return nil
}
