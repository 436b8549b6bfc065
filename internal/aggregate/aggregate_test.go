package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// memMetrics is an in-memory MetricsRepository for aggregator tests. It
// returns copies so callers can't mutate stored rows in place, matching the
// semantics of the Postgres implementation.
type memMetrics struct {
	mu        sync.Mutex
	sales     map[string]domain.SalesMetric
	customers map[string]domain.CustomerMetric
	products  map[string]domain.ProductPerformance
	revenue   map[string]domain.RevenueMetric

	failUpserts bool
	upsertCount int
}

func newMemMetrics() *memMetrics {
	return &memMetrics{
		sales:     make(map[string]domain.SalesMetric),
		customers: make(map[string]domain.CustomerMetric),
		products:  make(map[string]domain.ProductPerformance),
		revenue:   make(map[string]domain.RevenueMetric),
	}
}

var errUpsertFailed = errors.New("upsert failed")

func metricKey(a string, date time.Time, b string) string {
	return fmt.Sprintf("%s|%s|%s", a, date.Format("2006-01-02"), b)
}

func (m *memMetrics) GetSalesMetric(_ context.Context, date time.Time, productID string) (*domain.SalesMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.sales[metricKey("s", date, productID)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (m *memMetrics) UpsertSalesMetric(_ context.Context, metric *domain.SalesMetric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCount++
	if m.failUpserts {
		return errUpsertFailed
	}
	m.sales[metricKey("s", metric.Date, metric.ProductID)] = *metric
	return nil
}

func (m *memMetrics) ListSalesMetrics(_ context.Context, from, to time.Time) ([]domain.SalesMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SalesMetric
	for _, row := range m.sales {
		if !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memMetrics) GetCustomerMetric(_ context.Context, customerID string, date time.Time) (*domain.CustomerMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.customers[metricKey("c", date, customerID)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (m *memMetrics) UpsertCustomerMetric(_ context.Context, metric *domain.CustomerMetric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCount++
	if m.failUpserts {
		return errUpsertFailed
	}
	m.customers[metricKey("c", metric.Date, metric.CustomerID)] = *metric
	return nil
}

func (m *memMetrics) ListCustomerMetrics(_ context.Context, customerID string, from, to time.Time) ([]domain.CustomerMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CustomerMetric
	for _, row := range m.customers {
		if row.CustomerID == customerID && !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memMetrics) GetProductPerformance(_ context.Context, productID string, date time.Time) (*domain.ProductPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.products[metricKey("p", date, productID)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (m *memMetrics) UpsertProductPerformance(_ context.Context, metric *domain.ProductPerformance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCount++
	if m.failUpserts {
		return errUpsertFailed
	}
	m.products[metricKey("p", metric.Date, metric.ProductID)] = *metric
	return nil
}

func (m *memMetrics) ListProductPerformance(_ context.Context, productID string, from, to time.Time) ([]domain.ProductPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ProductPerformance
	for _, row := range m.products {
		if row.ProductID == productID && !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memMetrics) GetRevenueMetric(_ context.Context, date time.Time, period domain.PeriodType) (*domain.RevenueMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.revenue[metricKey("r", date, string(period))]; ok {
		return &row, nil
	}
	return nil, nil
}

func (m *memMetrics) UpsertRevenueMetric(_ context.Context, metric *domain.RevenueMetric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCount++
	if m.failUpserts {
		return errUpsertFailed
	}
	m.revenue[metricKey("r", metric.Date, string(metric.PeriodType))] = *metric
	return nil
}

func (m *memMetrics) ListRevenueMetrics(_ context.Context, period domain.PeriodType, from, to time.Time) ([]domain.RevenueMetric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RevenueMetric
	for _, row := range m.revenue {
		if row.PeriodType == period && !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testDay = time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
