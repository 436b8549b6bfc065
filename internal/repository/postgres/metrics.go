package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// Metrics implements repository.MetricsRepository on Postgres. Every upsert
// writes the full recomputed row; the per-kind primary keys enforce the
// one-row-per-key invariant.
type Metrics struct {
	client *Client
	log    *zap.Logger
}

// NewMetrics creates a new Postgres metrics repository
func NewMetrics(client *Client, log *zap.Logger) *Metrics {
	return &Metrics{client: client, log: log}
}

func (r *Metrics) GetSalesMetric(ctx context.Context, date time.Time, productID string) (*domain.SalesMetric, error) {
	var m domain.SalesMetric
	err := r.client.Pool().QueryRow(ctx, `
		SELECT date, product_id, COALESCE(category_id, ''), order_count, quantity_sold, revenue, average_order_value
		FROM sales_metrics
		WHERE date = $1 AND product_id = $2
	`, date, productID).Scan(&m.Date, &m.ProductID, &m.CategoryID, &m.OrderCount, &m.QuantitySold,
		&m.Revenue, &m.AverageOrderValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query sales metric: %w", err)
	}
	return &m, nil
}

func (r *Metrics) UpsertSalesMetric(ctx context.Context, metric *domain.SalesMetric) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO sales_metrics (date, product_id, category_id, order_count, quantity_sold, revenue, average_order_value)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		ON CONFLICT (date, product_id) DO UPDATE SET
			order_count = EXCLUDED.order_count,
			quantity_sold = EXCLUDED.quantity_sold,
			revenue = EXCLUDED.revenue,
			average_order_value = EXCLUDED.average_order_value
	`, metric.Date, metric.ProductID, metric.CategoryID, metric.OrderCount, metric.QuantitySold,
		metric.Revenue, metric.AverageOrderValue)
	if err != nil {
		return fmt.Errorf("failed to upsert sales metric: %w", err)
	}
	return nil
}

func (r *Metrics) ListSalesMetrics(ctx context.Context, from, to time.Time) ([]domain.SalesMetric, error) {
	rows, err := r.client.Pool().Query(ctx, `
		SELECT date, product_id, COALESCE(category_id, ''), order_count, quantity_sold, revenue, average_order_value
		FROM sales_metrics
		WHERE date >= $1 AND date <= $2
		ORDER BY date, product_id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales metrics: %w", err)
	}
	defer rows.Close()

	metrics := []domain.SalesMetric{}
	for rows.Next() {
		var m domain.SalesMetric
		if err := rows.Scan(&m.Date, &m.ProductID, &m.CategoryID, &m.OrderCount, &m.QuantitySold,
			&m.Revenue, &m.AverageOrderValue); err != nil {
			return nil, fmt.Errorf("failed to scan sales metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales metric rows: %w", err)
	}
	return metrics, nil
}

func (r *Metrics) GetCustomerMetric(ctx context.Context, customerID string, date time.Time) (*domain.CustomerMetric, error) {
	var m domain.CustomerMetric
	err := r.client.Pool().QueryRow(ctx, `
		SELECT customer_id, date, order_count, total_revenue, average_order_value, product_views, last_order_date
		FROM customer_metrics
		WHERE customer_id = $1 AND date = $2
	`, customerID, date).Scan(&m.CustomerID, &m.Date, &m.OrderCount, &m.TotalRevenue,
		&m.AverageOrderValue, &m.ProductViews, &m.LastOrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query customer metric: %w", err)
	}
	return &m, nil
}

func (r *Metrics) UpsertCustomerMetric(ctx context.Context, metric *domain.CustomerMetric) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO customer_metrics (customer_id, date, order_count, total_revenue, average_order_value, product_views, last_order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (customer_id, date) DO UPDATE SET
			order_count = EXCLUDED.order_count,
			total_revenue = EXCLUDED.total_revenue,
			average_order_value = EXCLUDED.average_order_value,
			product_views = EXCLUDED.product_views,
			last_order_date = EXCLUDED.last_order_date
	`, metric.CustomerID, metric.Date, metric.OrderCount, metric.TotalRevenue,
		metric.AverageOrderValue, metric.ProductViews, metric.LastOrderDate)
	if err != nil {
		return fmt.Errorf("failed to upsert customer metric: %w", err)
	}
	return nil
}

func (r *Metrics) ListCustomerMetrics(ctx context.Context, customerID string, from, to time.Time) ([]domain.CustomerMetric, error) {
	rows, err := r.client.Pool().Query(ctx, `
		SELECT customer_id, date, order_count, total_revenue, average_order_value, product_views, last_order_date
		FROM customer_metrics
		WHERE customer_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, customerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer metrics: %w", err)
	}
	defer rows.Close()

	metrics := []domain.CustomerMetric{}
	for rows.Next() {
		var m domain.CustomerMetric
		if err := rows.Scan(&m.CustomerID, &m.Date, &m.OrderCount, &m.TotalRevenue,
			&m.AverageOrderValue, &m.ProductViews, &m.LastOrderDate); err != nil {
			return nil, fmt.Errorf("failed to scan customer metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer metric rows: %w", err)
	}
	return metrics, nil
}

func (r *Metrics) GetProductPerformance(ctx context.Context, productID string, date time.Time) (*domain.ProductPerformance, error) {
	var m domain.ProductPerformance
	err := r.client.Pool().QueryRow(ctx, `
		SELECT product_id, date, views, unique_views, orders, quantity_sold, revenue, conversion_rate
		FROM product_performance
		WHERE product_id = $1 AND date = $2
	`, productID, date).Scan(&m.ProductID, &m.Date, &m.Views, &m.UniqueViews, &m.Orders,
		&m.QuantitySold, &m.Revenue, &m.ConversionRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product performance: %w", err)
	}
	return &m, nil
}

func (r *Metrics) UpsertProductPerformance(ctx context.Context, metric *domain.ProductPerformance) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO product_performance (product_id, date, views, unique_views, orders, quantity_sold, revenue, conversion_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id, date) DO UPDATE SET
			views = EXCLUDED.views,
			unique_views = EXCLUDED.unique_views,
			orders = EXCLUDED.orders,
			quantity_sold = EXCLUDED.quantity_sold,
			revenue = EXCLUDED.revenue,
			conversion_rate = EXCLUDED.conversion_rate
	`, metric.ProductID, metric.Date, metric.Views, metric.UniqueViews, metric.Orders,
		metric.QuantitySold, metric.Revenue, metric.ConversionRate)
	if err != nil {
		return fmt.Errorf("failed to upsert product performance: %w", err)
	}
	return nil
}

func (r *Metrics) ListProductPerformance(ctx context.Context, productID string, from, to time.Time) ([]domain.ProductPerformance, error) {
	rows, err := r.client.Pool().Query(ctx, `
		SELECT product_id, date, views, unique_views, orders, quantity_sold, revenue, conversion_rate
		FROM product_performance
		WHERE product_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, productID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query product performance: %w", err)
	}
	defer rows.Close()

	metrics := []domain.ProductPerformance{}
	for rows.Next() {
		var m domain.ProductPerformance
		if err := rows.Scan(&m.ProductID, &m.Date, &m.Views, &m.UniqueViews, &m.Orders,
			&m.QuantitySold, &m.Revenue, &m.ConversionRate); err != nil {
			return nil, fmt.Errorf("failed to scan product performance row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product performance rows: %w", err)
	}
	return metrics, nil
}

func (r *Metrics) GetRevenueMetric(ctx context.Context, date time.Time, period domain.PeriodType) (*domain.RevenueMetric, error) {
	var m domain.RevenueMetric
	err := r.client.Pool().QueryRow(ctx, `
		SELECT date, period_type, total_revenue, order_count, average_order_value, refund_amount, net_revenue
		FROM revenue_metrics
		WHERE date = $1 AND period_type = $2
	`, date, string(period)).Scan(&m.Date, &m.PeriodType, &m.TotalRevenue, &m.OrderCount,
		&m.AverageOrderValue, &m.RefundAmount, &m.NetRevenue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query revenue metric: %w", err)
	}
	return &m, nil
}

func (r *Metrics) UpsertRevenueMetric(ctx context.Context, metric *domain.RevenueMetric) error {
	_, err := r.client.Pool().Exec(ctx, `
		INSERT INTO revenue_metrics (date, period_type, total_revenue, order_count, average_order_value, refund_amount, net_revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date, period_type) DO UPDATE SET
			total_revenue = EXCLUDED.total_revenue,
			order_count = EXCLUDED.order_count,
			average_order_value = EXCLUDED.average_order_value,
			refund_amount = EXCLUDED.refund_amount,
			net_revenue = EXCLUDED.net_revenue
	`, metric.Date, string(metric.PeriodType), metric.TotalRevenue, metric.OrderCount,
		metric.AverageOrderValue, metric.RefundAmount, metric.NetRevenue)
	if err != nil {
		return fmt.Errorf("failed to upsert revenue metric: %w", err)
	}
	return nil
}

func (r *Metrics) ListRevenueMetrics(ctx context.Context, period domain.PeriodType, from, to time.Time) ([]domain.RevenueMetric, error) {
	rows, err := r.client.Pool().Query(ctx, `
		SELECT date, period_type, total_revenue, order_count, average_order_value, refund_amount, net_revenue
		FROM revenue_metrics
		WHERE period_type = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`, string(period), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue metrics: %w", err)
	}
	defer rows.Close()

	metrics := []domain.RevenueMetric{}
	for rows.Next() {
		var m domain.RevenueMetric
		if err := rows.Scan(&m.Date, &m.PeriodType, &m.TotalRevenue, &m.OrderCount,
			&m.AverageOrderValue, &m.RefundAmount, &m.NetRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue metric rows: %w", err)
	}
	return metrics, nil
}
