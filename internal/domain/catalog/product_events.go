package catalog

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeProduct is the aggregate type name for products
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated     = "ProductCreated"
	EventTypeProductDeactivated = "ProductDeactivated"
	EventTypeProductReviewed    = "ProductReviewed"
)

// ProductCreatedEvent is published when a new listing is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Category  Category        `json:"category"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Title:           p.Title,
		Category:        p.Category,
		Price:           p.Price,
	}
}

// ProductDeactivatedEvent is published when a listing is soft-disabled
type ProductDeactivatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewProductDeactivatedEvent creates a new ProductDeactivatedEvent
func NewProductDeactivatedEvent(p *Product) *ProductDeactivatedEvent {
	return &ProductDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeactivated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
	}
}

// ProductReviewedEvent is published when a review is added
type ProductReviewedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	ReviewID      uuid.UUID       `json:"review_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Rating        int             `json:"rating"`
	AverageRating decimal.Decimal `json:"average_rating"`
}

// NewProductReviewedEvent creates a new ProductReviewedEvent
func NewProductReviewedEvent(p *Product, r *Review) *ProductReviewedEvent {
	return &ProductReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductReviewed, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		ReviewID:        r.ID,
		UserID:          r.UserID,
		Rating:          r.Rating,
		AverageRating:   p.Rating.Average,
	}
}
