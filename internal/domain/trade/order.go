package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReview     OrderStatus = "review"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// OrderStatuses lists every order status
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusInProgress,
	OrderStatusReview,
	OrderStatusCompleted,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// IsFulfilled reports whether the work has been handed to the customer.
// A fulfilled order can only move between fulfilled statuses or be refunded.
func (s OrderStatus) IsFulfilled() bool {
	return s == OrderStatusCompleted || s == OrderStatusDelivered
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// PaymentStatuses lists every payment status
var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
	PaymentStatusPartiallyRefunded,
}

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	for _, known := range PaymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentMethod is the payment method tag chosen at checkout
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCrypto       PaymentMethod = "crypto"
)

// IsValid checks if the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodBankTransfer, PaymentMethodCrypto:
		return true
	}
	return false
}

// OrderItem is a line item with the price captured at placement
type OrderItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Title     string
	Quantity  int
	Price     decimal.Decimal
}

// LineTotal returns price × quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TimelineEntry records one status change
type TimelineEntry struct {
	Status  OrderStatus `json:"status"`
	Note    string      `json:"note,omitempty"`
	ActorID *uuid.UUID  `json:"actor_id,omitempty"`
	At      time.Time   `json:"at"`
}

// Note is an admin note; internal notes are hidden from the customer
type Note struct {
	Content    string    `json:"content"`
	AuthorID   uuid.UUID `json:"author_id"`
	IsInternal bool      `json:"is_internal"`
	At         time.Time `json:"at"`
}

// DeliveryFile is a deliverable attached to an order
type DeliveryFile struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Key         string    `json:"key,omitempty"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Order is a customer purchase
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string
	UserID         uuid.UUID
	Items          []OrderItem
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Shipping       decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	Status         OrderStatus
	PaymentStatus  PaymentStatus
	PaymentMethod  PaymentMethod
	TransactionID  string
	BillingAddress valueobject.Address
	CustomerNotes  string
	Timeline       []TimelineEntry
	Notes          []Note
	DeliveryFiles  []DeliveryFile
	PaidAt         *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// PlacementLine is one requested (product, quantity) pair
type PlacementLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// NormalizeLines validates requested lines and merges duplicates of the
// same product, keeping first-seen order.
func NormalizeLines(lines []PlacementLine) ([]PlacementLine, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	merged := make([]PlacementLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
		}
		if l.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// NewOrder builds a pending order from priced items and computes totals
func NewOrder(
	userID uuid.UUID,
	items []OrderItem,
	method PaymentMethod,
	address valueobject.Address,
	discount decimal.Decimal,
	policy PricingPolicy,
) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be one of: card, paypal, bank_transfer, crypto")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	addr, err := valueobject.NewAddress(address)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if items[i].Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
		}
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}

	now := time.Now()
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(now),
		UserID:            userID,
		Items:             items,
		Discount:          valueobject.RoundMoney(discount),
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
		PaymentMethod:     method,
		BillingAddress:    addr,
		Timeline: []TimelineEntry{{
			Status:  OrderStatusPending,
			Note:    "Order placed",
			ActorID: &userID,
			At:      now,
		}},
		Notes:         make([]Note, 0),
		DeliveryFiles: make([]DeliveryFile, 0),
	}
	if err := o.RecalculateTotals(policy); err != nil {
		return nil, err
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// GenerateOrderNumber returns ORD-YYYYMMDD-XXXXXX
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// RecalculateTotals recomputes subtotal, tax, shipping and total and
// checks total == subtotal + tax + shipping - discount.
func (o *Order) RecalculateTotals(policy PricingPolicy) error {
	lines := make([]decimal.Decimal, len(o.Items))
	for i, item := range o.Items {
		lines[i] = item.LineTotal()
	}
	q := policy.Quote(valueobject.SumMoney(lines...), o.Discount)
	if q.Total.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the order amount")
	}
	o.Subtotal = q.Subtotal
	o.Tax = q.Tax
	o.Shipping = q.Shipping
	o.Total = q.Total
	return o.ValidateTotals()
}

// ValidateTotals checks the total invariant
func (o *Order) ValidateTotals() error {
	expected := o.Subtotal.Add(o.Tax).Add(o.Shipping).Sub(o.Discount)
	if !expected.Equal(o.Total) {
		return shared.NewDomainError("INVALID_TOTAL", "Order total does not match its components")
	}
	return nil
}

// ChangeStatus moves the order to a new status and appends a timeline entry
func (o *Order) ChangeStatus(status OrderStatus, note string, actorID *uuid.UUID) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Order is "+string(o.Status)+" and can no longer change")
	}
	if o.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Order is already "+string(status))
	}
	if o.Status.IsFulfilled() && !status.IsFulfilled() && status != OrderStatusRefunded {
		return shared.NewDomainError("INVALID_STATE", "Order is "+string(o.Status)+" and cannot move back to "+string(status))
	}

	now := time.Now()
	old := o.Status
	o.Status = status
	o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Note: strings.TrimSpace(note), ActorID: actorID, At: now})

	switch status {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = strings.TrimSpace(note)
	}
	o.Touch()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	if status == OrderStatusCancelled {
		o.AddDomainEvent(NewOrderCancelledEvent(o))
	}

	return nil
}

// Cancel cancels the order
func (o *Order) Cancel(reason string, actorID *uuid.UUID) error {
	if reason == "" {
		reason = "Order cancelled"
	}
	return o.ChangeStatus(OrderStatusCancelled, reason, actorID)
}

// CanBeCancelledByCustomer reports whether the owner may still cancel
func (o *Order) CanBeCancelledByCustomer() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// UpdatePaymentStatus sets the payment status and transaction reference
func (o *Order) UpdatePaymentStatus(status PaymentStatus, transactionID string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
	o.PaymentStatus = status
	if transactionID = strings.TrimSpace(transactionID); transactionID != "" {
		o.TransactionID = transactionID
	}
	if status == PaymentStatusPaid && o.PaidAt == nil {
		now := time.Now()
		o.PaidAt = &now
	}
	o.Touch()
	return nil
}

// AddNote appends an admin note
func (o *Order) AddNote(content string, authorID uuid.UUID, internal bool) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note content cannot be empty")
	}
	if len(content) > 5000 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 5000 characters")
	}
	note := Note{Content: content, AuthorID: authorID, IsInternal: internal, At: time.Now()}
	o.Notes = append(o.Notes, note)
	o.Touch()
	return &note, nil
}

// AddDeliveryFile attaches a deliverable
func (o *Order) AddDeliveryFile(file DeliveryFile) error {
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach files to a cancelled order")
	}
	if strings.TrimSpace(file.Name) == "" || strings.TrimSpace(file.URL) == "" {
		return shared.NewDomainError("INVALID_FILE", "Delivery file name and url are required")
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}
	o.DeliveryFiles = append(o.DeliveryFiles, file)
	o.Touch()
	return nil
}

// PublicNotes returns the notes visible to the customer
func (o *Order) PublicNotes() []Note {
	out := make([]Note, 0, len(o.Notes))
	for _, n := range o.Notes {
		if !n.IsInternal {
			out = append(out, n)
		}
	}
	return out
}

// IsOwnedBy reports whether the order belongs to userID
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}
