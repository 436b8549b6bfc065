package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/domain"
	"github.com/Hobbit71/cloudshop/internal/search"
	"github.com/shopspring/decimal"
)

type MockEventLog struct {
	mock.Mock
}

func (m *MockEventLog) Append(ctx context.Context, event *domain.RawEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventLog) MarkProcessed(ctx context.Context, id string, processedAt time.Time) error {
	args := m.Called(ctx, id, processedAt)
	return args.Error(0)
}

func (m *MockEventLog) FindUnprocessed(ctx context.Context, limit int) ([]domain.RawEvent, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.RawEvent), args.Error(1)
}

func (m *MockEventLog) FindByTypeAndRange(ctx context.Context, eventType string, from, to time.Time, limit int) ([]domain.RawEvent, error) {
	args := m.Called(ctx, eventType, from, to, limit)
	return args.Get(0).([]domain.RawEvent), args.Error(1)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(ctx context.Context, doc *search.EventDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockIndexer) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSales struct {
	mock.Mock
}

func (m *MockSales) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockCustomer struct {
	mock.Mock
}

func (m *MockCustomer) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCustomer) ApplyView(ctx context.Context, event *domain.ProductViewedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCustomer) ApplyRegistration(ctx context.Context, event *domain.CustomerRegisteredEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockProduct struct {
	mock.Mock
}

func (m *MockProduct) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockProduct) ApplyView(ctx context.Context, event *domain.ProductViewedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockRevenue struct {
	mock.Mock
}

func (m *MockRevenue) ApplyOrder(ctx context.Context, event *domain.OrderCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRevenue) ApplyPayment(ctx context.Context, event *domain.PaymentCompletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type dispatcherMocks struct {
	events   *MockEventLog
	index    *MockIndexer
	sales    *MockSales
	customer *MockCustomer
	product  *MockProduct
	revenue  *MockRevenue
}

func newTestDispatcher() (*Dispatcher, *dispatcherMocks) {
	m := &dispatcherMocks{
		events:   new(MockEventLog),
		index:    new(MockIndexer),
		sales:    new(MockSales),
		customer: new(MockCustomer),
		product:  new(MockProduct),
		revenue:  new(MockRevenue),
	}
	d := NewDispatcher(m.events, m.index, m.sales, m.customer, m.product, m.revenue,
		Config{AggregateTimeout: time.Second, IndexTimeout: time.Second}, zap.NewNop())
	return d, m
}

func testOrder() *domain.OrderCreatedEvent {
	return &domain.OrderCreatedEvent{
		OrderID:     "ord-1",
		CustomerID:  "cust-1",
		TotalAmount: decimal.RequireFromString("20.00"),
		Items: []domain.OrderItem{
			{ProductID: "P1", Quantity: 2, Price: decimal.RequireFromString("10.00"), CategoryID: "cat-1"},
		},
		Timestamp: time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
	}
}

func TestDispatcher_ProcessOrderCreated_FansOutAndMarksProcessed(t *testing.T) {
	d, m := newTestDispatcher()
	event := testOrder()

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(true, nil)
	m.index.On("Index", mock.Anything, mock.AnythingOfType("*search.EventDocument")).Return(nil)
	m.sales.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.customer.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.product.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.revenue.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.events.On("MarkProcessed", mock.Anything, orderEventID(event), mock.AnythingOfType("time.Time")).Return(nil)

	err := d.ProcessOrderCreated(context.Background(), event)

	require.NoError(t, err)
	m.events.AssertExpectations(t)
	m.sales.AssertExpectations(t)
	m.customer.AssertExpectations(t)
	m.product.AssertExpectations(t)
	m.revenue.AssertExpectations(t)
}

func TestDispatcher_ProcessOrderCreated_DuplicateSkipsFanOut(t *testing.T) {
	d, m := newTestDispatcher()
	event := testOrder()

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(false, nil)

	err := d.ProcessOrderCreated(context.Background(), event)

	require.NoError(t, err)
	m.events.AssertExpectations(t)
	m.index.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
	m.sales.AssertNotCalled(t, "ApplyOrder", mock.Anything, mock.Anything)
	m.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_ProcessOrderCreated_IndexFailureIsSwallowed(t *testing.T) {
	d, m := newTestDispatcher()
	event := testOrder()

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(true, nil)
	m.index.On("Index", mock.Anything, mock.AnythingOfType("*search.EventDocument")).Return(errors.New("index unavailable"))
	m.sales.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.customer.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.product.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.revenue.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.events.On("MarkProcessed", mock.Anything, orderEventID(event), mock.AnythingOfType("time.Time")).Return(nil)

	err := d.ProcessOrderCreated(context.Background(), event)

	require.NoError(t, err)
	m.events.AssertExpectations(t)
}

func TestDispatcher_ProcessOrderCreated_AggregatorFailureAbortsBeforeMarkProcessed(t *testing.T) {
	d, m := newTestDispatcher()
	event := testOrder()
	aggErr := errors.New("metric store down")

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(true, nil)
	m.index.On("Index", mock.Anything, mock.AnythingOfType("*search.EventDocument")).Return(nil)
	m.sales.On("ApplyOrder", mock.Anything, event).Return(nil)
	m.customer.On("ApplyOrder", mock.Anything, event).Return(aggErr)

	err := d.ProcessOrderCreated(context.Background(), event)

	require.Error(t, err)
	assert.ErrorIs(t, err, aggErr)
	m.product.AssertNotCalled(t, "ApplyOrder", mock.Anything, mock.Anything)
	m.revenue.AssertNotCalled(t, "ApplyOrder", mock.Anything, mock.Anything)
	m.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_ProcessOrderCreated_AppendErrorAborts(t *testing.T) {
	d, m := newTestDispatcher()
	event := testOrder()

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(false, errors.New("connection refused"))

	err := d.ProcessOrderCreated(context.Background(), event)

	require.Error(t, err)
	m.index.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
	m.sales.AssertNotCalled(t, "ApplyOrder", mock.Anything, mock.Anything)
}

func TestDispatcher_ProcessPaymentCompleted_UpdatesRevenueOnly(t *testing.T) {
	d, m := newTestDispatcher()
	event := &domain.PaymentCompletedEvent{
		PaymentID:  "pay-1",
		OrderID:    "ord-1",
		CustomerID: "cust-1",
		Amount:     decimal.RequireFromString("50.00"),
		Timestamp:  time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
	}

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(true, nil)
	m.index.On("Index", mock.Anything, mock.AnythingOfType("*search.EventDocument")).Return(nil)
	m.revenue.On("ApplyPayment", mock.Anything, event).Return(nil)
	m.events.On("MarkProcessed", mock.Anything, paymentEventID(event), mock.AnythingOfType("time.Time")).Return(nil)

	err := d.ProcessPaymentCompleted(context.Background(), event)

	require.NoError(t, err)
	m.revenue.AssertExpectations(t)
	m.sales.AssertNotCalled(t, "ApplyOrder", mock.Anything, mock.Anything)
}

func TestDispatcher_ProcessProductViewed_UpdatesCustomerAndProduct(t *testing.T) {
	d, m := newTestDispatcher()
	event := &domain.ProductViewedEvent{
		ProductID: "P1",
		UserID:    "user-1",
		SessionID: "sess-1",
		Timestamp: time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
	}

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(true, nil)
	m.index.On("Index", mock.Anything, mock.AnythingOfType("*search.EventDocument")).Return(nil)
	m.customer.On("ApplyView", mock.Anything, event).Return(nil)
	m.product.On("ApplyView", mock.Anything, event).Return(nil)
	m.events.On("MarkProcessed", mock.Anything, viewEventID(event), mock.AnythingOfType("time.Time")).Return(nil)

	err := d.ProcessProductViewed(context.Background(), event)

	require.NoError(t, err)
	m.customer.AssertExpectations(t)
	m.product.AssertExpectations(t)
	m.revenue.AssertNotCalled(t, "ApplyOrder", mock.Anything, mock.Anything)
}

func TestDispatcher_ProcessCustomerRegistered_SeedsCustomerMetric(t *testing.T) {
	d, m := newTestDispatcher()
	event := &domain.CustomerRegisteredEvent{
		CustomerID: "cust-1",
		Email:      "new@example.com",
		Timestamp:  time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
	}

	m.events.On("Append", mock.Anything, mock.AnythingOfType("*domain.RawEvent")).Return(true, nil)
	m.index.On("Index", mock.Anything, mock.AnythingOfType("*search.EventDocument")).Return(nil)
	m.customer.On("ApplyRegistration", mock.Anything, event).Return(nil)
	m.events.On("MarkProcessed", mock.Anything, registrationEventID(event), mock.AnythingOfType("time.Time")).Return(nil)

	err := d.ProcessCustomerRegistered(context.Background(), event)

	require.NoError(t, err)
	m.customer.AssertExpectations(t)
}

func TestEventIDs_DeterministicAcrossDeliveries(t *testing.T) {
	a := testOrder()
	b := testOrder()

	assert.Equal(t, orderEventID(a), orderEventID(b))
	assert.Len(t, orderEventID(a), 64)

	b.Timestamp = b.Timestamp.Add(time.Nanosecond)
	assert.NotEqual(t, orderEventID(a), orderEventID(b))
}

func TestEventIDs_DistinctAcrossTypes(t *testing.T) {
	ts := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
	order := &domain.OrderCreatedEvent{OrderID: "x", CustomerID: "u", Timestamp: ts}
	payment := &domain.PaymentCompletedEvent{PaymentID: "x", CustomerID: "u", Timestamp: ts}

	assert.NotEqual(t, orderEventID(order), paymentEventID(payment))
}
