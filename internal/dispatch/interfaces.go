package dispatch

import (
	"context"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// SalesAggregator maintains the sales metric kind
type SalesAggregator interface {
	ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error
}

// CustomerAggregator maintains the customer metric kind
type CustomerAggregator interface {
	ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error
	ApplyView(ctx context.Context, event *domain.ProductViewedEvent) error
	ApplyRegistration(ctx context.Context, event *domain.CustomerRegisteredEvent) error
}

// ProductAggregator maintains the product performance metric kind
type ProductAggregator interface {
	ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error
	ApplyView(ctx context.Context, event *domain.ProductViewedEvent) error
}

// RevenueAggregator maintains the revenue metric kind
type RevenueAggregator interface {
	ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error
	ApplyPayment(ctx context.Context, event *domain.PaymentCompletedEvent) error
}
