package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"from is required"`
}

// PublishEventResponse represents a successful event publish response
type PublishEventResponse struct {
	EventType string `json:"event_type" example:"order_created"`
	Status    string `json:"status" example:"accepted"`
}

// SalesMetricData represents one sales metric row
type SalesMetricData struct {
	Date              string  `json:"date" example:"2026-08-30"`
	ProductID         string  `json:"product_id" example:"prod-789"`
	CategoryID        string  `json:"category_id,omitempty" example:"cat-12"`
	OrderCount        int64   `json:"order_count" example:"2"`
	QuantitySold      int64   `json:"quantity_sold" example:"4"`
	Revenue           string  `json:"revenue" example:"40.00"`
	AverageOrderValue *string `json:"average_order_value,omitempty" example:"20.00"`
}

// CustomerMetricData represents one customer metric row
type CustomerMetricData struct {
	CustomerID        string  `json:"customer_id" example:"cust-123"`
	Date              string  `json:"date" example:"2026-08-30"`
	OrderCount        int64   `json:"order_count" example:"1"`
	TotalRevenue      string  `json:"total_revenue" example:"50.00"`
	AverageOrderValue *string `json:"average_order_value,omitempty" example:"50.00"`
	ProductViews      int64   `json:"product_views" example:"7"`
	LastOrderDate     *string `json:"last_order_date,omitempty" example:"2026-08-30"`
}

// ProductPerformanceData represents one product performance row
type ProductPerformanceData struct {
	ProductID      string  `json:"product_id" example:"prod-789"`
	Date           string  `json:"date" example:"2026-08-30"`
	Views          int64   `json:"views" example:"3"`
	UniqueViews    int64   `json:"unique_views" example:"2"`
	Orders         int64   `json:"orders" example:"1"`
	QuantitySold   int64   `json:"quantity_sold" example:"2"`
	Revenue        string  `json:"revenue" example:"20.00"`
	ConversionRate *string `json:"conversion_rate,omitempty" example:"0.3333"`
}

// RevenueMetricData represents one revenue metric row
type RevenueMetricData struct {
	Date              string  `json:"date" example:"2026-08-30"`
	PeriodType        string  `json:"period_type" example:"DAILY"`
	TotalRevenue      string  `json:"total_revenue" example:"100.00"`
	OrderCount        int64   `json:"order_count" example:"2"`
	AverageOrderValue *string `json:"average_order_value,omitempty" example:"50.00"`
	RefundAmount      string  `json:"refund_amount" example:"0.00"`
	NetRevenue        string  `json:"net_revenue" example:"100.00"`
}

// RawEventData represents one raw event log row
type RawEventData struct {
	ID          string `json:"id"`
	EventType   string `json:"event_type" example:"order_created"`
	UserID      string `json:"user_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	EntityID    string `json:"entity_id,omitempty"`
	EntityType  string `json:"entity_type,omitempty"`
	Properties  string `json:"properties"`
	Timestamp   int64  `json:"timestamp" example:"1723475612"`
	Processed   bool   `json:"processed"`
	ProcessedAt *int64 `json:"processed_at,omitempty"`
}
