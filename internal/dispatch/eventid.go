package dispatch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// computeEventID derives a deterministic event ID from the fields that
// uniquely identify one event occurrence. A redelivered message hashes to
// the same ID, which is what the event log's idempotency check keys on.
func computeEventID(eventType, entityID, userID string, ts time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%d", eventType, entityID, userID, ts.UnixNano())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func orderEventID(event *domain.OrderCreatedEvent) string {
	return computeEventID(domain.EventTypeOrderCreated, event.OrderID, event.CustomerID, event.Timestamp)
}

func paymentEventID(event *domain.PaymentCompletedEvent) string {
	return computeEventID(domain.EventTypePaymentCompleted, event.PaymentID, event.CustomerID, event.Timestamp)
}

func viewEventID(event *domain.ProductViewedEvent) string {
	// Session scopes the view: the same user reloading the page is a new event
	return computeEventID(domain.EventTypeProductViewed, event.ProductID+"|"+event.SessionID, event.UserID, event.Timestamp)
}

func registrationEventID(event *domain.CustomerRegisteredEvent) string {
	return computeEventID(domain.EventTypeCustomerRegistered, event.CustomerID, event.CustomerID, event.Timestamp)
}
