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

// Sales maintains the per-(date, product) sales rollup
type Sales struct {
	metrics repository.MetricsRepository
	locks   *keyMutex
	log     *zap.Logger
}

// NewSales creates a new sales aggregator
func NewSales(metrics repository.MetricsRepository, log *zap.Logger) *Sales {
	return &Sales{
		metrics: metrics,
		locks:   newKeyMutex(),
		log:     log,
	}
}

// ApplyOrder upserts one sales metric row per order line item
func (a *Sales) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	if len(event.Items) == 0 {
		return nil
	}

	date := domain.MetricDate(event.Timestamp)

	for _, item := range event.Items {
		if err := a.upsertItem(ctx, date, item); err != nil {
			return err
		}
	}
	return nil
}

func (a *Sales) upsertItem(ctx context.Context, date time.Time, item domain.OrderItem) error {
	unlock := a.locks.Lock(dateKey("sales", date, item.ProductID))
	defer unlock()

	metric, err := a.metrics.GetSalesMetric(ctx, date, item.ProductID)
	if err != nil {
		return fmt.Errorf("failed to load sales metric: %w", err)
	}

	lineRevenue := item.Price.Mul(decimal.NewFromInt(item.Quantity))

	if metric == nil {
		// CategoryID is fixed by the first contributing line item
		metric = &domain.SalesMetric{
			Date:         date,
			ProductID:    item.ProductID,
			CategoryID:   item.CategoryID,
			OrderCount:   1,
			QuantitySold: item.Quantity,
			Revenue:      lineRevenue,
		}
	} else {
		metric.OrderCount++
		metric.QuantitySold += item.Quantity
		metric.Revenue = metric.Revenue.Add(lineRevenue)
	}

	metric.AverageOrderValue = averageValue(metric.Revenue, metric.OrderCount)

	if err := a.metrics.UpsertSalesMetric(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert sales metric: %w", err)
	}

	a.log.Debug("Updated sales metric",
		zap.String("product_id", item.ProductID),
		zap.Time("date", date))
	return nil
}
