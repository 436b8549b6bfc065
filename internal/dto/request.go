package dto

import "encoding/json"

// PublishEventRequest represents a publish event request. Payload is the
// typed event body; the event_type discriminator is injected on publish.
type PublishEventRequest struct {
	EventType string          `json:"event_type" binding:"required,oneof=order_created payment_completed product_viewed customer_registered"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}

// GetSalesMetricsRequest queries sales metrics for a date range, optionally
// narrowed to one product
type GetSalesMetricsRequest struct {
	From      string `form:"from" binding:"required" example:"2026-08-01"`
	To        string `form:"to" binding:"required" example:"2026-08-31"`
	ProductID string `form:"product_id" example:"prod-789"`
}

// GetCustomerMetricsRequest queries one customer's metrics for a date range
type GetCustomerMetricsRequest struct {
	CustomerID string `form:"customer_id" binding:"required" example:"cust-123"`
	From       string `form:"from" binding:"required" example:"2026-08-01"`
	To         string `form:"to" binding:"required" example:"2026-08-31"`
}

// GetProductPerformanceRequest queries one product's performance for a date range
type GetProductPerformanceRequest struct {
	ProductID string `form:"product_id" binding:"required" example:"prod-789"`
	From      string `form:"from" binding:"required" example:"2026-08-01"`
	To        string `form:"to" binding:"required" example:"2026-08-31"`
}

// GetRevenueMetricsRequest queries revenue metrics for a period type and date range
type GetRevenueMetricsRequest struct {
	Period string `form:"period" example:"DAILY"`
	From   string `form:"from" binding:"required" example:"2026-08-01"`
	To     string `form:"to" binding:"required" example:"2026-08-31"`
}

// GetEventsRequest queries raw events by type and unix time range
type GetEventsRequest struct {
	EventType string `form:"event_type" binding:"required" example:"order_created"`
	From      int64  `form:"from" binding:"required" example:"1723475612"`
	To        int64  `form:"to" binding:"required" example:"1723562012"`
	Limit     int    `form:"limit" example:"100"`
}
