package service

import (
	"context"

	"github.com/Hobbit71/cloudshop/internal/dto"
)

// AnalyticsServicer defines the interface for analytics API operations
type AnalyticsServicer interface {
	PublishEvent(ctx context.Context, req *dto.PublishEventRequest) error
	GetSalesMetrics(ctx context.Context, req *dto.GetSalesMetricsRequest) ([]dto.SalesMetricData, error)
	GetCustomerMetrics(ctx context.Context, req *dto.GetCustomerMetricsRequest) ([]dto.CustomerMetricData, error)
	GetProductPerformance(ctx context.Context, req *dto.GetProductPerformanceRequest) ([]dto.ProductPerformanceData, error)
	GetRevenueMetrics(ctx context.Context, req *dto.GetRevenueMetricsRequest) ([]dto.RevenueMetricData, error)
	GetEvents(ctx context.Context, req *dto.GetEventsRequest) ([]dto.RawEventData, error)
}
