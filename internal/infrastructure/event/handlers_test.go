package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/support"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeMetrics struct {
	placed    []float64
	cancelled int
	statuses  []string
	messages  []string
}

func (m *fakeMetrics) RecordOrderPlaced(total float64)  { m.placed = append(m.placed, total) }
func (m *fakeMetrics) RecordOrderCancelled()            { m.cancelled++ }
func (m *fakeMetrics) RecordOrderStatusChange(s string) { m.statuses = append(m.statuses, s) }
func (m *fakeMetrics) RecordMessageReceived(mt string)  { m.messages = append(m.messages, mt) }

func testOrder() *trade.Order {
	o := &trade.Order{
		OrderNumber: "ORD-1",
		UserID:      uuid.New(),
		Status:      trade.OrderStatusConfirmed,
		Total:       decimal.RequireFromString("148.50"),
	}
	o.ID = uuid.New()
	return o
}

func TestMetricsHandler(t *testing.T) {
	m := &fakeMetrics{}
	bus := startedBus(t)
	bus.Subscribe(NewMetricsHandler(m))

	o := testOrder()
	msg := &support.Message{Type: support.MessageTypeSupport}
	msg.ID = uuid.New()
	ctx := context.Background()
	_ = bus.Publish(ctx,
		trade.NewOrderPlacedEvent(o),
		trade.NewOrderStatusChangedEvent(o, trade.OrderStatusPending),
		trade.NewOrderCancelledEvent(o),
		support.NewMessageReceivedEvent(msg),
	)

	assert.Equal(t, []float64{148.5}, m.placed)
	assert.Equal(t, []string{"confirmed"}, m.statuses)
	assert.Equal(t, 1, m.cancelled)
	assert.Equal(t, []string{string(support.MessageTypeSupport)}, m.messages)
}

func TestAuditLogHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewAuditLogHandler(zap.New(core))

	o := testOrder()
	require.NoError(t, h.Handle(context.Background(), trade.NewOrderPlacedEvent(o)))

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, trade.EventTypeOrderPlaced, fields["event_type"])
	assert.Equal(t, "ORD-1", fields["order_number"])
	assert.Equal(t, "148.50", fields["total"])
	assert.Empty(t, h.EventTypes())
}
