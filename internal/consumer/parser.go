package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/Hobbit71/cloudshop/internal/domain"
)

// ParsedEvent is the decoded form of one inbound message. Exactly one of the
// typed event fields is set, selected by Type.
type ParsedEvent struct {
	Type         string
	Order        *domain.OrderCreatedEvent
	Payment      *domain.PaymentCompletedEvent
	View         *domain.ProductViewedEvent
	Registration *domain.CustomerRegisteredEvent
}

// JSONEventParser implements MessageParser for JSON-formatted event messages
// carrying an event_type discriminator
type JSONEventParser struct{}

// NewJSONEventParser creates a new JSON event parser
func NewJSONEventParser() *JSONEventParser {
	return &JSONEventParser{}
}

// Parse decodes a JSON message body into its typed event. Each event type
// decodes independently, so a malformed payload of one kind never affects
// messages of another.
func (p *JSONEventParser) Parse(body []byte) (*ParsedEvent, error) {
	var discriminator struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(body, &discriminator); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	parsed := &ParsedEvent{Type: discriminator.EventType}

	switch discriminator.EventType {
	case domain.EventTypeOrderCreated:
		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, fmt.Errorf("failed to decode order_created event: %w", err)
		}
		parsed.Order = &event

	case domain.EventTypePaymentCompleted:
		var event domain.PaymentCompletedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, fmt.Errorf("failed to decode payment_completed event: %w", err)
		}
		parsed.Payment = &event

	case domain.EventTypeProductViewed:
		var event domain.ProductViewedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, fmt.Errorf("failed to decode product_viewed event: %w", err)
		}
		parsed.View = &event

	case domain.EventTypeCustomerRegistered:
		var event domain.CustomerRegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, fmt.Errorf("failed to decode customer_registered event: %w", err)
		}
		parsed.Registration = &event

	default:
		return nil, fmt.Errorf("unknown event type: %q", discriminator.EventType)
	}

	return parsed, nil
}
