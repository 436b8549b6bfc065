package consumer

import (
	"context"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// MessageParser defines the interface for decoding raw message bytes into a
// typed event
type MessageParser interface {
	Parse(body []byte) (*ParsedEvent, error)
}

// EventDispatcher defines the downstream pipeline invoked per decoded event
type EventDispatcher interface {
	ProcessOrderCreated(ctx context.Context, event *domain.OrderCreatedEvent) error
	ProcessPaymentCompleted(ctx context.Context, event *domain.PaymentCompletedEvent) error
	ProcessProductViewed(ctx context.Context, event *domain.ProductViewedEvent) error
	ProcessCustomerRegistered(ctx context.Context, event *domain.CustomerRegisteredEvent) error
}
