package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event type discriminators carried in the message body
const (
	EventTypeOrderCreated       = "order_created"
	EventTypePaymentCompleted   = "payment_completed"
	EventTypeProductViewed      = "product_viewed"
	EventTypeCustomerRegistered = "customer_registered"
)

// RawEvent is the durable record of a single received event. Immutable after
// creation except Processed/ProcessedAt, which are set exactly once after fan-out.
type RawEvent struct {
	ID          string
	EventType   string
	UserID      string
	SessionID   string
	EntityID    string
	EntityType  string
	Properties  string
	Timestamp   time.Time
	Processed   bool
	ProcessedAt *time.Time
}

// OrderItem is a single line item of an order_created event
type OrderItem struct {
	ProductID  string          `json:"productId"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"categoryId"`
}

// OrderCreatedEvent is emitted by the order service when an order is placed
type OrderCreatedEvent struct {
	OrderID     string          `json:"orderId"`
	CustomerID  string          `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`
	Items       []OrderItem     `json:"items"`
	Timestamp   time.Time       `json:"timestamp"`
}

// PaymentCompletedEvent is emitted by the payment service on successful capture
type PaymentCompletedEvent struct {
	PaymentID      string          `json:"paymentId"`
	OrderID        string          `json:"orderId"`
	CustomerID     string          `json:"customerId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentGateway string          `json:"paymentGateway"`
	Timestamp      time.Time       `json:"timestamp"`
}

// ProductViewedEvent is emitted by the storefront on a product page view.
// UserID is empty for anonymous sessions.
type ProductViewedEvent struct {
	ProductID  string    `json:"productId"`
	UserID     string    `json:"userId"`
	SessionID  string    `json:"sessionId"`
	CategoryID string    `json:"categoryId"`
	Timestamp  time.Time `json:"timestamp"`
}

// CustomerRegisteredEvent is emitted by the auth service on sign-up
type CustomerRegisteredEvent struct {
	CustomerID         string    `json:"customerId"`
	Email              string    `json:"email"`
	RegistrationSource string    `json:"registrationSource"`
	Timestamp          time.Time `json:"timestamp"`
}
