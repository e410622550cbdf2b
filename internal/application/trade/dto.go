package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one requested product and quantity
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=1000"`
}

// AddressRequest is a billing address
type AddressRequest struct {
	FullName   string `json:"full_name" binding:"required,max=200"`
	Email      string `json:"email" binding:"required,email,max=254"`
	Phone      string `json:"phone" binding:"max=50"`
	Street     string `json:"street" binding:"required,max=300"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=100"`
}

func (a AddressRequest) toValueObject() valueobject.Address {
	return valueobject.Address{
		FullName:   a.FullName,
		Email:      a.Email,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// PlaceOrderRequest places an order. Prices are always read from the catalog.
// Discount is a flat amount off the order; the HTTP layer accepts it from
// admins only.
type PlaceOrderRequest struct {
	Items          []OrderLineRequest `json:"items" binding:"required,min=1,max=100,dive"`
	PaymentMethod  string             `json:"payment_method" binding:"required,oneof=card paypal bank_transfer crypto"`
	BillingAddress AddressRequest     `json:"billing_address" binding:"required"`
	CustomerNotes  string             `json:"customer_notes" binding:"max=2000"`
	Discount       *decimal.Decimal   `json:"discount,omitempty"`
}

func (r PlaceOrderRequest) discount() decimal.Decimal {
	if r.Discount == nil {
		return decimal.Zero
	}
	return *r.Discount
}

// OrderListFilter is the admin order query
type OrderListFilter struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed processing in_progress review completed delivered cancelled refunded"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded partially_refunded"`
	UserID        string `form:"user_id" binding:"omitempty,uuid"`
	From          string `form:"from"` // RFC 3339 or YYYY-MM-DD
	To            string `form:"to"`
}

// UpdateStatusRequest changes the order status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing in_progress review completed delivered cancelled refunded"`
	Note   string `json:"note" binding:"max=1000"`
}

// UpdatePaymentRequest changes the payment status
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid failed refunded partially_refunded"`
	TransactionID string `json:"transaction_id" binding:"max=200"`
}

// AddNoteRequest adds an admin note
type AddNoteRequest struct {
	Content    string `json:"content" binding:"required,max=5000"`
	IsInternal bool   `json:"is_internal"`
}

// DeliveryFileRequest describes an uploaded deliverable
type DeliveryFileRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	URL         string `json:"url" binding:"required,max=1000"`
	Key         string `json:"key" binding:"max=500"`
	Size        int64  `json:"size" binding:"min=0"`
	ContentType string `json:"content_type" binding:"max=100"`
}

// AddDeliveryFilesRequest attaches deliverables to an order
type AddDeliveryFilesRequest struct {
	Files []DeliveryFileRequest `json:"files" binding:"required,min=1,max=10,dive"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderItemResponse is one order line
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrderNumber    string                `json:"order_number"`
	UserID         uuid.UUID             `json:"user_id"`
	Items          []OrderItemResponse   `json:"items"`
	ItemCount      int                   `json:"item_count"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Tax            decimal.Decimal       `json:"tax"`
	Shipping       decimal.Decimal       `json:"shipping"`
	Discount       decimal.Decimal       `json:"discount"`
	Total          decimal.Decimal       `json:"total"`
	Status         string                `json:"status"`
	PaymentStatus  string                `json:"payment_status"`
	PaymentMethod  string                `json:"payment_method"`
	TransactionID  string                `json:"transaction_id,omitempty"`
	BillingAddress valueobject.Address   `json:"billing_address"`
	CustomerNotes  string                `json:"customer_notes,omitempty"`
	Timeline       []trade.TimelineEntry `json:"timeline"`
	Notes          []trade.Note          `json:"notes"`
	DeliveryFiles  []trade.DeliveryFile  `json:"delivery_files"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	DeliveredAt    *time.Time            `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason   string                `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ToOrderResponse converts an order. Internal notes are only included for admins.
func ToOrderResponse(o *trade.Order, includeInternal bool) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.LineTotal(),
		}
	}

	notes := o.Notes
	if !includeInternal {
		notes = o.PublicNotes()
	}
	if notes == nil {
		notes = []trade.Note{}
	}
	timeline := o.Timeline
	if timeline == nil {
		timeline = []trade.TimelineEntry{}
	}
	files := o.DeliveryFiles
	if files == nil {
		files = []trade.DeliveryFile{}
	}

	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Items:          items,
		ItemCount:      o.ItemCount(),
		Subtotal:       o.Subtotal,
		Tax:            o.Tax,
		Shipping:       o.Shipping,
		Discount:       o.Discount,
		Total:          o.Total,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  string(o.PaymentMethod),
		TransactionID:  o.TransactionID,
		BillingAddress: o.BillingAddress,
		CustomerNotes:  o.CustomerNotes,
		Timeline:       timeline,
		Notes:          notes,
		DeliveryFiles:  files,
		PaidAt:         o.PaidAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
}
