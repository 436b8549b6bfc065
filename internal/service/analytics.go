package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
	"github.com/Hobbit71/cloudshop/internal/dto"
	"github.com/Hobbit71/cloudshop/internal/queue"
	"github.com/Hobbit71/cloudshop/internal/repository"
)

const (
	dateLayout        = "2006-01-02"
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// AnalyticsService exposes the read accessors consumed by reporting plus the
// event publish path used by other services
type AnalyticsService struct {
	publisher queue.QueuePublisher
	events    repository.EventLogRepository
	metrics   repository.MetricsRepository
	log       *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(publisher queue.QueuePublisher, events repository.EventLogRepository,
	metrics repository.MetricsRepository, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		publisher: publisher,
		events:    events,
		metrics:   metrics,
		log:       log,
	}
}

// PublishEvent validates and enqueues one event
func (s *AnalyticsService) PublishEvent(ctx context.Context, req *dto.PublishEventRequest) error {
	if err := s.publisher.PublishEvent(ctx, req.EventType, req.Payload); err != nil {
		return fmt.Errorf("failed to publish event to queue: %w", err)
	}
	return nil
}

// GetSalesMetrics returns sales metrics in a date range, optionally for one product
func (s *AnalyticsService) GetSalesMetrics(ctx context.Context, req *dto.GetSalesMetricsRequest) ([]dto.SalesMetricData, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	if req.ProductID != "" && from.Equal(to) {
		metric, err := s.metrics.GetSalesMetric(ctx, from, req.ProductID)
		if err != nil {
			return nil, err
		}
		if metric == nil {
			return []dto.SalesMetricData{}, nil
		}
		return []dto.SalesMetricData{salesMetricData(metric)}, nil
	}

	metrics, err := s.metrics.ListSalesMetrics(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]dto.SalesMetricData, 0, len(metrics))
	for i := range metrics {
		if req.ProductID != "" && metrics[i].ProductID != req.ProductID {
			continue
		}
		result = append(result, salesMetricData(&metrics[i]))
	}
	return result, nil
}

// GetCustomerMetrics returns one customer's metrics in a date range
func (s *AnalyticsService) GetCustomerMetrics(ctx context.Context, req *dto.GetCustomerMetricsRequest) ([]dto.CustomerMetricData, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.ListCustomerMetrics(ctx, req.CustomerID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CustomerMetricData, 0, len(metrics))
	for i := range metrics {
		result = append(result, customerMetricData(&metrics[i]))
	}
	return result, nil
}

// GetProductPerformance returns one product's performance in a date range
func (s *AnalyticsService) GetProductPerformance(ctx context.Context, req *dto.GetProductPerformanceRequest) ([]dto.ProductPerformanceData, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	metrics, err := s.metrics.ListProductPerformance(ctx, req.ProductID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ProductPerformanceData, 0, len(metrics))
	for i := range metrics {
		result = append(result, productPerformanceData(&metrics[i]))
	}
	return result, nil
}

// GetRevenueMetrics returns revenue metrics for a period type in a date range
func (s *AnalyticsService) GetRevenueMetrics(ctx context.Context, req *dto.GetRevenueMetricsRequest) ([]dto.RevenueMetricData, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	period := domain.PeriodType(req.Period)
	if req.Period == "" {
		period = domain.PeriodDaily
	}
	switch period {
	case domain.PeriodDaily, domain.PeriodWeekly, domain.PeriodMonthly, domain.PeriodYearly:
	default:
		return nil, fmt.Errorf("invalid period value: %s (supported: DAILY, WEEKLY, MONTHLY, YEARLY)", req.Period)
	}

	metrics, err := s.metrics.ListRevenueMetrics(ctx, period, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]dto.RevenueMetricData, 0, len(metrics))
	for i := range metrics {
		result = append(result, revenueMetricData(&metrics[i]))
	}
	return result, nil
}

// GetEvents returns raw events of one type in a unix time range
func (s *AnalyticsService) GetEvents(ctx context.Context, req *dto.GetEventsRequest) ([]dto.RawEventData, error) {
	if req.From > req.To {
		return nil, fmt.Errorf("from timestamp must be less than or equal to to timestamp")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := s.events.FindByTypeAndRange(ctx, req.EventType,
		time.Unix(req.From, 0).UTC(), time.Unix(req.To, 0).UTC(), limit)
	if err != nil {
		return nil, err
	}

	result := make([]dto.RawEventData, 0, len(events))
	for i := range events {
		result = append(result, rawEventData(&events[i]))
	}
	return result, nil
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, fromStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", fromStr)
	}
	to, err := time.ParseInLocation(dateLayout, toStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", toStr)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from date must not be after to date")
	}
	return from, to, nil
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func salesMetricData(m *domain.SalesMetric) dto.SalesMetricData {
	return dto.SalesMetricData{
		Date:              m.Date.Format(dateLayout),
		ProductID:         m.ProductID,
		CategoryID:        m.CategoryID,
		OrderCount:        m.OrderCount,
		QuantitySold:      m.QuantitySold,
		Revenue:           m.Revenue.StringFixed(2),
		AverageOrderValue: decimalString(m.AverageOrderValue),
	}
}

func customerMetricData(m *domain.CustomerMetric) dto.CustomerMetricData {
	var lastOrder *string
	if m.LastOrderDate != nil {
		s := m.LastOrderDate.Format(dateLayout)
		lastOrder = &s
	}
	return dto.CustomerMetricData{
		CustomerID:        m.CustomerID,
		Date:              m.Date.Format(dateLayout),
		OrderCount:        m.OrderCount,
		TotalRevenue:      m.TotalRevenue.StringFixed(2),
		AverageOrderValue: decimalString(m.AverageOrderValue),
		ProductViews:      m.ProductViews,
		LastOrderDate:     lastOrder,
	}
}

func productPerformanceData(m *domain.ProductPerformance) dto.ProductPerformanceData {
	var rate *string
	if m.ConversionRate != nil {
		s := m.ConversionRate.StringFixed(4)
		rate = &s
	}
	return dto.ProductPerformanceData{
		ProductID:      m.ProductID,
		Date:           m.Date.Format(dateLayout),
		Views:          m.Views,
		UniqueViews:    m.UniqueViews,
		Orders:         m.Orders,
		QuantitySold:   m.QuantitySold,
		Revenue:        m.Revenue.StringFixed(2),
		ConversionRate: rate,
	}
}

func revenueMetricData(m *domain.RevenueMetric) dto.RevenueMetricData {
	return dto.RevenueMetricData{
		Date:              m.Date.Format(dateLayout),
		PeriodType:        string(m.PeriodType),
		TotalRevenue:      m.TotalRevenue.StringFixed(2),
		OrderCount:        m.OrderCount,
		AverageOrderValue: decimalString(m.AverageOrderValue),
		RefundAmount:      m.RefundAmount.StringFixed(2),
		NetRevenue:        m.NetRevenue.StringFixed(2),
	}
}

func rawEventData(ev *domain.RawEvent) dto.RawEventData {
	var processedAt *int64
	if ev.ProcessedAt != nil {
		ts := ev.ProcessedAt.Unix()
		processedAt = &ts
	}
	return dto.RawEventData{
		ID:          ev.ID,
		EventType:   ev.EventType,
		UserID:      ev.UserID,
		SessionID:   ev.SessionID,
		EntityID:    ev.EntityID,
		EntityType:  ev.EntityType,
		Properties:  ev.Properties,
		Timestamp:   ev.Timestamp.Unix(),
		Processed:   ev.Processed,
		ProcessedAt: processedAt,
	}
}
