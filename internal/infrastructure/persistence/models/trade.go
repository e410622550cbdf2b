package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
// Timeline, notes and delivery files are JSON documents on the order row.
type OrderModel struct {
	AggregateModel
	OrderNumber    string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Tax            decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Shipping       decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Discount       decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status         trade.OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus  trade.PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod  trade.PaymentMethod   `gorm:"type:varchar(20);not null"`
	TransactionID  string                `gorm:"type:varchar(100)"`
	BillingAddress valueobject.Address   `gorm:"type:jsonb"`
	CustomerNotes  string                `gorm:"type:text"`
	Timeline       []trade.TimelineEntry `gorm:"serializer:json;type:jsonb"`
	Notes          []trade.Note          `gorm:"serializer:json;type:jsonb"`
	DeliveryFiles  []trade.DeliveryFile  `gorm:"serializer:json;type:jsonb"`
	PaidAt         *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string           `gorm:"type:varchar(500)"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]trade.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		UserID:            m.UserID,
		Items:             items,
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		Shipping:          m.Shipping,
		Discount:          m.Discount,
		Total:             m.Total,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		PaymentMethod:     m.PaymentMethod,
		TransactionID:     m.TransactionID,
		BillingAddress:    m.BillingAddress,
		CustomerNotes:     m.CustomerNotes,
		Timeline:          nonNil(m.Timeline),
		Notes:             nonNil(m.Notes),
		DeliveryFiles:     nonNil(m.DeliveryFiles),
		PaidAt:            m.PaidAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.UserID = o.UserID
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.Shipping = o.Shipping
	m.Discount = o.Discount
	m.Total = o.Total
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.TransactionID = o.TransactionID
	m.BillingAddress = o.BillingAddress
	m.CustomerNotes = o.CustomerNotes
	m.Timeline = nonNil(o.Timeline)
	m.Notes = nonNil(o.Notes)
	m.DeliveryFiles = nonNil(o.DeliveryFiles)
	m.PaidAt = o.PaidAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
// Title and price are captured at placement.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title     string          `gorm:"type:varchar(200);not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:        m.ID,
		ProductID: m.ProductID,
		Title:     m.Title,
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
}

// OrderItemModelFromDomain creates a persistence model for one line of orderID
func OrderItemModelFromDomain(orderID uuid.UUID, item trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:        item.ID,
		OrderID:   orderID,
		ProductID: item.ProductID,
		Title:     item.Title,
		Quantity:  item.Quantity,
		Price:     item.Price,
	}
}
