package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
	"github.com/Hobbit71/cloudshop/internal/repository"
	"github.com/Hobbit71/cloudshop/internal/search"
)

// Config bounds the dispatcher's calls to its collaborators so a slow
// dependency cannot stall the whole dispatch chain.
type Config struct {
	AggregateTimeout time.Duration
	IndexTimeout     time.Duration
}

// Dispatcher durably logs each event, fans it out to the relevant
// aggregators in a fixed order, best-effort indexes a denormalized copy and
// finally marks the event processed. Two error policies apply: event log
// and aggregator errors abort the message, index errors are logged only.
type Dispatcher struct {
	events   repository.EventLogRepository
	index    search.EventIndexer
	sales    SalesAggregator
	customer CustomerAggregator
	product  ProductAggregator
	revenue  RevenueAggregator
	config   Config
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher wired to its stores and aggregators
func NewDispatcher(
	events repository.EventLogRepository,
	index search.EventIndexer,
	sales SalesAggregator,
	customer CustomerAggregator,
	product ProductAggregator,
	revenue RevenueAggregator,
	config Config,
	log *zap.Logger,
) *Dispatcher {
	if config.AggregateTimeout <= 0 {
		config.AggregateTimeout = 10 * time.Second
	}
	if config.IndexTimeout <= 0 {
		config.IndexTimeout = 5 * time.Second
	}

	return &Dispatcher{
		events:   events,
		index:    index,
		sales:    sales,
		customer: customer,
		product:  product,
		revenue:  revenue,
		config:   config,
		log:      log,
	}
}

// ProcessOrderCreated handles one order_created event
func (d *Dispatcher) ProcessOrderCreated(ctx context.Context, event *domain.OrderCreatedEvent) error {
	raw, inserted, err := d.logEvent(ctx, orderEventID(event), domain.EventTypeOrderCreated,
		event.CustomerID, "", event.OrderID, "order", event, event.Timestamp)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	d.indexEvent(ctx, raw)

	// Fixed fan-out order; the first failing aggregator aborts the message
	// and leaves the raw event unprocessed for replay.
	if err := d.aggregate(ctx, "sales", func(ctx context.Context) error {
		return d.sales.ApplyOrder(ctx, event)
	}); err != nil {
		return err
	}
	if err := d.aggregate(ctx, "customer", func(ctx context.Context) error {
		return d.customer.ApplyOrder(ctx, event)
	}); err != nil {
		return err
	}
	if err := d.aggregate(ctx, "product", func(ctx context.Context) error {
		return d.product.ApplyOrder(ctx, event)
	}); err != nil {
		return err
	}
	if err := d.aggregate(ctx, "revenue", func(ctx context.Context) error {
		return d.revenue.ApplyOrder(ctx, event)
	}); err != nil {
		return err
	}

	if err := d.markProcessed(ctx, raw.ID); err != nil {
		return err
	}

	d.log.Info("Processed order_created event", zap.String("order_id", event.OrderID))
	return nil
}

// ProcessPaymentCompleted handles one payment_completed event
func (d *Dispatcher) ProcessPaymentCompleted(ctx context.Context, event *domain.PaymentCompletedEvent) error {
	raw, inserted, err := d.logEvent(ctx, paymentEventID(event), domain.EventTypePaymentCompleted,
		event.CustomerID, "", event.PaymentID, "payment", event, event.Timestamp)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	d.indexEvent(ctx, raw)

	if err := d.aggregate(ctx, "revenue", func(ctx context.Context) error {
		return d.revenue.ApplyPayment(ctx, event)
	}); err != nil {
		return err
	}

	if err := d.markProcessed(ctx, raw.ID); err != nil {
		return err
	}

	d.log.Info("Processed payment_completed event", zap.String("payment_id", event.PaymentID))
	return nil
}

// ProcessProductViewed handles one product_viewed event
func (d *Dispatcher) ProcessProductViewed(ctx context.Context, event *domain.ProductViewedEvent) error {
	raw, inserted, err := d.logEvent(ctx, viewEventID(event), domain.EventTypeProductViewed,
		event.UserID, event.SessionID, event.ProductID, "product", event, event.Timestamp)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	d.indexEvent(ctx, raw)

	if err := d.aggregate(ctx, "customer", func(ctx context.Context) error {
		return d.customer.ApplyView(ctx, event)
	}); err != nil {
		return err
	}
	if err := d.aggregate(ctx, "product", func(ctx context.Context) error {
		return d.product.ApplyView(ctx, event)
	}); err != nil {
		return err
	}

	if err := d.markProcessed(ctx, raw.ID); err != nil {
		return err
	}

	d.log.Debug("Processed product_viewed event", zap.String("product_id", event.ProductID))
	return nil
}

// ProcessCustomerRegistered handles one customer_registered event
func (d *Dispatcher) ProcessCustomerRegistered(ctx context.Context, event *domain.CustomerRegisteredEvent) error {
	raw, inserted, err := d.logEvent(ctx, registrationEventID(event), domain.EventTypeCustomerRegistered,
		event.CustomerID, "", event.CustomerID, "customer", event, event.Timestamp)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	d.indexEvent(ctx, raw)

	if err := d.aggregate(ctx, "customer", func(ctx context.Context) error {
		return d.customer.ApplyRegistration(ctx, event)
	}); err != nil {
		return err
	}

	if err := d.markProcessed(ctx, raw.ID); err != nil {
		return err
	}

	d.log.Info("Processed customer_registered event", zap.String("customer_id", event.CustomerID))
	return nil
}

// logEvent serializes the typed event and appends it to the event log.
// inserted=false means the event was already logged by a previous delivery
// and the caller must skip fan-out.
func (d *Dispatcher) logEvent(ctx context.Context, id, eventType, userID, sessionID,
	entityID, entityType string, payload any, timestamp time.Time) (*domain.RawEvent, bool, error) {

	properties, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to serialize event properties: %w", err)
	}

	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	raw := &domain.RawEvent{
		ID:         id,
		EventType:  eventType,
		UserID:     userID,
		SessionID:  sessionID,
		EntityID:   entityID,
		EntityType: entityType,
		Properties: string(properties),
		Timestamp:  timestamp,
	}

	inserted, err := d.events.Append(ctx, raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to append event to log: %w", err)
	}
	if !inserted {
		d.log.Warn("Duplicate event delivery skipped",
			zap.String("event_id", id),
			zap.String("event_type", eventType))
	}

	return raw, inserted, nil
}

// indexEvent writes a denormalized copy to the search index. Best-effort:
// failures are logged and swallowed.
func (d *Dispatcher) indexEvent(ctx context.Context, raw *domain.RawEvent) {
	indexCtx, cancel := context.WithTimeout(ctx, d.config.IndexTimeout)
	defer cancel()

	doc := &search.EventDocument{
		ID:         uuid.NewString(),
		EventID:    raw.ID,
		EventType:  raw.EventType,
		UserID:     raw.UserID,
		SessionID:  raw.SessionID,
		EntityID:   raw.EntityID,
		EntityType: raw.EntityType,
		Properties: raw.Properties,
		Timestamp:  raw.Timestamp,
		IndexedAt:  time.Now(),
	}

	if err := d.index.Index(indexCtx, doc); err != nil {
		d.log.Warn("Failed to index event document",
			zap.String("event_id", raw.ID),
			zap.String("event_type", raw.EventType),
			zap.Error(err))
	}
}

func (d *Dispatcher) aggregate(ctx context.Context, kind string, apply func(context.Context) error) error {
	aggCtx, cancel := context.WithTimeout(ctx, d.config.AggregateTimeout)
	defer cancel()

	if err := apply(aggCtx); err != nil {
		return fmt.Errorf("%s aggregation failed: %w", kind, err)
	}
	return nil
}

func (d *Dispatcher) markProcessed(ctx context.Context, id string) error {
	if err := d.events.MarkProcessed(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}
