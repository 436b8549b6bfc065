package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// averageValue returns total/count rounded half-up to 2 decimals, or nil when
// count is zero. Derived fields are recomputed from scratch on every upsert
// and an undefined average is absent, never zero.
func averageValue(total decimal.Decimal, count int64) *decimal.Decimal {
	if count == 0 {
		return nil
	}
	avg := total.DivRound(decimal.NewFromInt(count), 2)
	return &avg
}

// conversionRate returns orders/views rounded half-up to 4 decimals, defined
// only when both counts are positive.
func conversionRate(orders, views int64) *decimal.Decimal {
	if orders <= 0 || views <= 0 {
		return nil
	}
	rate := decimal.NewFromInt(orders).DivRound(decimal.NewFromInt(views), 4)
	return &rate
}

func dateKey(prefix string, date time.Time, id string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, id, date.Format("2006-01-02"))
}
