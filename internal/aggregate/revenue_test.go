package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

func TestRevenue_OrderAndPaymentBothCount(t *testing.T) {
	repo := newMemMetrics()
	agg := NewRevenue(repo, zap.NewNop())

	order := &domain.OrderCreatedEvent{
		OrderID:     "ord-1",
		CustomerID:  "cust-1",
		TotalAmount: dec("50.00"),
		Timestamp:   testDay,
	}
	payment := &domain.PaymentCompletedEvent{
		PaymentID: "pay-1",
		OrderID:   "ord-1",
		Amount:    dec("50.00"),
		Timestamp: testDay,
	}

	require.NoError(t, agg.ApplyOrder(context.Background(), order))
	require.NoError(t, agg.ApplyPayment(context.Background(), payment))

	metric, err := repo.GetRevenueMetric(context.Background(), domain.MetricDate(testDay), domain.PeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, metric)

	assert.True(t, metric.TotalRevenue.Equal(dec("100.00")))
	assert.Equal(t, int64(2), metric.OrderCount)
	assert.True(t, metric.NetRevenue.Equal(dec("100.00")))
	assert.True(t, metric.RefundAmount.IsZero())
	require.NotNil(t, metric.AverageOrderValue)
	assert.Equal(t, "50.00", metric.AverageOrderValue.StringFixed(2))
}

func TestRevenue_SeedsDailyRow(t *testing.T) {
	repo := newMemMetrics()
	agg := NewRevenue(repo, zap.NewNop())

	require.NoError(t, agg.ApplyOrder(context.Background(), &domain.OrderCreatedEvent{
		OrderID:     "ord-1",
		TotalAmount: dec("19.99"),
		Timestamp:   testDay,
	}))

	metric, err := repo.GetRevenueMetric(context.Background(), domain.MetricDate(testDay), domain.PeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, metric)

	assert.Equal(t, domain.PeriodDaily, metric.PeriodType)
	assert.True(t, metric.TotalRevenue.Equal(dec("19.99")))
	assert.Equal(t, int64(1), metric.OrderCount)
	require.NotNil(t, metric.AverageOrderValue)
	assert.Equal(t, "19.99", metric.AverageOrderValue.StringFixed(2))
}

func TestRevenue_NetRevenueSubtractsRefunds(t *testing.T) {
	repo := newMemMetrics()
	agg := NewRevenue(repo, zap.NewNop())

	date := domain.MetricDate(testDay)
	require.NoError(t, repo.UpsertRevenueMetric(context.Background(), &domain.RevenueMetric{
		Date:         date,
		PeriodType:   domain.PeriodDaily,
		TotalRevenue: dec("100.00"),
		OrderCount:   2,
		RefundAmount: dec("30.00"),
	}))

	require.NoError(t, agg.ApplyOrder(context.Background(), &domain.OrderCreatedEvent{
		OrderID:     "ord-3",
		TotalAmount: dec("20.00"),
		Timestamp:   testDay,
	}))

	metric, err := repo.GetRevenueMetric(context.Background(), date, domain.PeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, metric)

	assert.True(t, metric.TotalRevenue.Equal(dec("120.00")))
	assert.Equal(t, int64(3), metric.OrderCount)
	assert.True(t, metric.RefundAmount.Equal(dec("30.00")))
	assert.True(t, metric.NetRevenue.Equal(dec("90.00")))
	require.NotNil(t, metric.AverageOrderValue)
	assert.Equal(t, "40.00", metric.AverageOrderValue.StringFixed(2))
}

func TestRevenue_UpsertErrorPropagates(t *testing.T) {
	repo := newMemMetrics()
	repo.failUpserts = true
	agg := NewRevenue(repo, zap.NewNop())

	err := agg.ApplyOrder(context.Background(), &domain.OrderCreatedEvent{
		OrderID:     "ord-1",
		TotalAmount: dec("10.00"),
		Timestamp:   testDay,
	})
	assert.ErrorIs(t, err, errUpsertFailed)
}
