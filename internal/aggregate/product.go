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

// Product maintains the per-(product, date) performance rollup. Unique views
// come from the shared viewer tracker, so concurrent workers updating the
// same key converge on one cardinality.
type Product struct {
	metrics repository.MetricsRepository
	viewers ViewerTracker
	locks   *keyMutex
	log     *zap.Logger
}

// NewProduct creates a new product performance aggregator
func NewProduct(metrics repository.MetricsRepository, viewers ViewerTracker, log *zap.Logger) *Product {
	return &Product{
		metrics: metrics,
		viewers: viewers,
		locks:   newKeyMutex(),
		log:     log,
	}
}

// ApplyView merges one product view into the row for the view date
func (a *Product) ApplyView(ctx context.Context, event *domain.ProductViewedEvent) error {
	date := domain.MetricDate(event.Timestamp)

	unlock := a.locks.Lock(dateKey("product", date, event.ProductID))
	defer unlock()

	metric, err := a.metrics.GetProductPerformance(ctx, event.ProductID, date)
	if err != nil {
		return fmt.Errorf("failed to load product performance: %w", err)
	}

	if metric == nil {
		metric = &domain.ProductPerformance{
			ProductID: event.ProductID,
			Date:      date,
			Revenue:   decimal.Zero,
		}
	}

	metric.Views++

	// Anonymous views count toward Views but not UniqueViews
	if event.UserID != "" {
		unique, err := a.viewers.Add(ctx, event.ProductID, date, event.UserID)
		if err != nil {
			return fmt.Errorf("failed to track unique viewer: %w", err)
		}
		metric.UniqueViews = unique
	}

	metric.ConversionRate = conversionRate(metric.Orders, metric.Views)

	if err := a.metrics.UpsertProductPerformance(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert product performance: %w", err)
	}

	a.log.Debug("Updated product performance from view",
		zap.String("product_id", event.ProductID),
		zap.Time("date", date))
	return nil
}

// ApplyOrder merges each line item of an order into its product's row
func (a *Product) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
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

func (a *Product) upsertItem(ctx context.Context, date time.Time, item domain.OrderItem) error {
	unlock := a.locks.Lock(dateKey("product", date, item.ProductID))
	defer unlock()

	metric, err := a.metrics.GetProductPerformance(ctx, item.ProductID, date)
	if err != nil {
		return fmt.Errorf("failed to load product performance: %w", err)
	}

	lineRevenue := item.Price.Mul(decimal.NewFromInt(item.Quantity))

	if metric == nil {
		metric = &domain.ProductPerformance{
			ProductID:    item.ProductID,
			Date:         date,
			Orders:       1,
			QuantitySold: item.Quantity,
			Revenue:      lineRevenue,
		}
	} else {
		metric.Orders++
		metric.QuantitySold += item.Quantity
		metric.Revenue = metric.Revenue.Add(lineRevenue)
	}

	metric.ConversionRate = conversionRate(metric.Orders, metric.Views)

	if err := a.metrics.UpsertProductPerformance(ctx, metric); err != nil {
		return fmt.Errorf("failed to upsert product performance: %w", err)
	}

	a.log.Debug("Updated product performance from order",
		zap.String("product_id", item.ProductID),
		zap.Time("date", date))
	return nil
}
