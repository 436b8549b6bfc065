package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the granularity of a revenue metric row
type PeriodType string

const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
	PeriodYearly  PeriodType = "YEARLY"
)

// MetricDate truncates a timestamp to its UTC calendar date, the key axis
// shared by all metric kinds. Zero timestamps fall back to the current date.
func MetricDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SalesMetric is the per-(date, product) sales rollup. AverageOrderValue is
// derived on every upsert and nil while OrderCount is zero.
type SalesMetric struct {
	Date              time.Time
	ProductID         string
	CategoryID        string
	OrderCount        int64
	QuantitySold      int64
	Revenue           decimal.Decimal
	AverageOrderValue *decimal.Decimal
}

// CustomerMetric is the per-(customer, date) activity rollup. Order and view
// events merge into the same row; either counter may be zero.
type CustomerMetric struct {
	CustomerID        string
	Date              time.Time
	OrderCount        int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue *decimal.Decimal
	ProductViews      int64
	LastOrderDate     *time.Time
}

// ProductPerformance is the per-(product, date) view/order rollup.
// ConversionRate is defined only when both Views and Orders are positive.
type ProductPerformance struct {
	ProductID      string
	Date           time.Time
	Views          int64
	UniqueViews    int64
	Orders         int64
	QuantitySold   int64
	Revenue        decimal.Decimal
	ConversionRate *decimal.Decimal
}

// RevenueMetric is the per-(date, period) revenue rollup. Only DAILY rows are
// written by the pipeline; RefundAmount is maintained by the refund path.
type RevenueMetric struct {
	Date              time.Time
	PeriodType        PeriodType
	TotalRevenue      decimal.Decimal
	OrderCount        int64
	AverageOrderValue *decimal.Decimal
	RefundAmount      decimal.Decimal
	NetRevenue        decimal.Decimal
}
