package event

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/support"
	"github.com/marketplace/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// BusinessMetrics is the part of telemetry.Metrics fed by domain events
type BusinessMetrics interface {
	RecordOrderPlaced(total float64)
	RecordOrderCancelled()
	RecordOrderStatusChange(status string)
	RecordMessageReceived(messageType string)
}

// MetricsHandler translates order and message events into counters
type MetricsHandler struct {
	metrics BusinessMetrics
}

func NewMetricsHandler(metrics BusinessMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

func (h *MetricsHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderCancelled,
		support.EventTypeMessageReceived,
	}
}

func (h *MetricsHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *trade.OrderPlacedEvent:
		h.metrics.RecordOrderPlaced(e.Total.InexactFloat64())
	case *trade.OrderStatusChangedEvent:
		h.metrics.RecordOrderStatusChange(string(e.NewStatus))
	case *trade.OrderCancelledEvent:
		h.metrics.RecordOrderCancelled()
	case *support.MessageReceivedEvent:
		h.metrics.RecordMessageReceived(string(e.Type))
	}
	return nil
}

// AuditLogHandler writes one structured line per domain event. Personal
// data such as emails is left out.
type AuditLogHandler struct {
	logger *zap.Logger
}

func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes is empty, so the handler sees every event
func (h *AuditLogHandler) EventTypes() []string { return nil }

func (h *AuditLogHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	}

	switch e := evt.(type) {
	case *trade.OrderPlacedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("user_id", e.UserID.String()),
			zap.Int("lines", len(e.Items)),
			zap.String("total", e.Total.StringFixed(2)),
		)
	case *trade.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.OldStatus)),
			zap.String("to", string(e.NewStatus)),
		)
	case *trade.OrderCancelledEvent:
		fields = append(fields, zap.String("order_number", e.OrderNumber), zap.String("reason", e.Reason))
	case *identity.UserRoleChangedEvent:
		fields = append(fields, zap.String("from", string(e.OldRole)), zap.String("to", string(e.NewRole)))
	case *catalog.ProductDeactivatedEvent:
		fields = append(fields, zap.String("product_id", e.ProductID.String()))
	}

	h.logger.Info("domain event", fields...)
	return nil
}

var (
	_ shared.EventHandler = (*MetricsHandler)(nil)
	_ shared.EventHandler = (*AuditLogHandler)(nil)
)
