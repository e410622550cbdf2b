package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category is the closed set of listing categories
type Category string

const (
	CategoryWebApplication     Category = "web-application"
	CategoryMobileApplication  Category = "mobile-application"
	CategoryDesktopApplication Category = "desktop-application"
	CategoryWebsiteTemplate    Category = "website-template"
	CategoryUIKit              Category = "ui-kit"
	CategoryPlugin             Category = "plugin"
	CategoryAPIService         Category = "api-service"
	CategoryOther              Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWebApplication,
	CategoryMobileApplication,
	CategoryDesktopApplication,
	CategoryWebsiteTemplate,
	CategoryUIKit,
	CategoryPlugin,
	CategoryAPIService,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var categoryLabels = map[Category]string{
	CategoryWebApplication:     "Web Application",
	CategoryMobileApplication:  "Mobile Application",
	CategoryDesktopApplication: "Desktop Application",
	CategoryWebsiteTemplate:    "Website Template",
	CategoryUIKit:              "UI Kit",
	CategoryPlugin:             "Plugin",
	CategoryAPIService:         "API Service",
	CategoryOther:              "Other",
}

// Label returns the display name of a category
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

const (
	maxTitleLength = 200
	maxListItems   = 50
	maxImages      = 20
)

// Rating is the denormalized review aggregate
type Rating struct {
	Average decimal.Decimal
	Count   int
}

// Product is a catalog listing and the aggregate root for its reviews
type Product struct {
	shared.BaseAggregateRoot
	Title        string
	Description  string
	Price        decimal.Decimal
	Category     Category
	Features     []string
	Technologies []string
	Images       []string
	DemoURL      string
	Stock        *int // nil means unlimited
	Rating       Rating
	Reviews      []Review
	IsActive     bool
	IsFeatured   bool
	Views        int64
	Sales        int64
	CreatedBy    *uuid.UUID
}

// ProductDetails are the admin-editable fields of a listing
type ProductDetails struct {
	Title        string
	Description  string
	Price        decimal.Decimal
	Category     Category
	Features     []string
	Technologies []string
	Images       []string
	DemoURL      string
	Stock        *int
	IsFeatured   bool
}

// NewProduct creates an active listing
func NewProduct(details ProductDetails, createdBy *uuid.UUID) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Rating:            Rating{Average: decimal.Zero},
		Reviews:           make([]Review, 0),
		IsActive:          true,
		CreatedBy:         createdBy,
	}
	if err := p.apply(details); err != nil {
		return nil, err
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(details ProductDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Product) apply(d ProductDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 200 characters")
	}
	if err := validatePrice(d.Price); err != nil {
		return err
	}
	if !d.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if err := validateStock(d.Stock); err != nil {
		return err
	}
	if len(d.Features) > maxListItems || len(d.Technologies) > maxListItems {
		return shared.NewDomainError("TOO_MANY_ITEMS", "Features and technologies are limited to 50 entries each")
	}
	if len(d.Images) > maxImages {
		return shared.NewDomainError("TOO_MANY_IMAGES", "A product can have at most 20 images")
	}

	p.Title = title
	p.Description = strings.TrimSpace(d.Description)
	p.Price = d.Price
	p.Category = d.Category
	p.Features = cleanList(d.Features)
	p.Technologies = cleanList(d.Technologies)
	p.Images = cleanList(d.Images)
	p.DemoURL = strings.TrimSpace(d.DemoURL)
	p.Stock = copyStock(d.Stock)
	p.IsFeatured = d.IsFeatured
	return nil
}

// SetPrice changes the listing price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.Touch()
	return nil
}

// SetStock sets the tracked stock; nil makes the stock unlimited
func (p *Product) SetStock(stock *int) error {
	if err := validateStock(stock); err != nil {
		return err
	}
	p.Stock = copyStock(stock)
	p.Touch()
	return nil
}

// Activate makes the listing visible again
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.Touch()
}

// Deactivate soft-disables the listing
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.IsActive = false
	p.Touch()
	p.AddDomainEvent(NewProductDeactivatedEvent(p))
	return nil
}

// HasUnlimitedStock reports whether stock is untracked
func (p *Product) HasUnlimitedStock() bool {
	return p.Stock == nil
}

// InStock reports whether at least one unit can be sold
func (p *Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

// CanFulfil checks availability for qty units
func (p *Product) CanFulfil(qty int) error {
	if !p.IsActive {
		return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product "+p.Title+" is not available")
	}
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if p.Stock != nil && *p.Stock < qty {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+p.Title)
	}
	return nil
}

// AddReview appends a review and refreshes the rating aggregate.
// A user can review a product once.
func (p *Product) AddReview(userID uuid.UUID, userName string, rating int, comment string, verifiedPurchase bool) (*Review, error) {
	if p.HasReviewFrom(userID) {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this product")
	}

	review, err := NewReview(p.ID, userID, userName, rating, comment, verifiedPurchase)
	if err != nil {
		return nil, err
	}

	p.Reviews = append(p.Reviews, *review)
	p.RecalculateRating()
	p.Touch()
	p.AddDomainEvent(NewProductReviewedEvent(p, review))

	return review, nil
}

// HasReviewFrom reports whether userID already reviewed the product
func (p *Product) HasReviewFrom(userID uuid.UUID) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// RecalculateRating recomputes the average and count from Reviews
func (p *Product) RecalculateRating() {
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = NewRating(sum, len(p.Reviews))
}

// NewRating builds the aggregate from the sum and number of star ratings.
// The average keeps one decimal.
func NewRating(sum, count int) Rating {
	if count <= 0 {
		return Rating{Average: decimal.Zero}
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(1)
	return Rating{Average: avg, Count: count}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateStock(stock *int) error {
	if stock != nil && *stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return nil
}

func copyStock(stock *int) *int {
	if stock == nil {
		return nil
	}
	v := *stock
	return &v
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Review is a customer review embedded in a product
type Review struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	UserID           uuid.UUID
	UserName         string
	Rating           int
	Comment          string
	VerifiedPurchase bool
	CreatedAt        time.Time
}

// NewReview validates and builds a review
func NewReview(productID, userID uuid.UUID, userName string, rating int, comment string, verifiedPurchase bool) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 2000 {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}
	return &Review{
		ID:               uuid.New(),
		ProductID:        productID,
		UserID:           userID,
		UserName:         strings.TrimSpace(userName),
		Rating:           rating,
		Comment:          comment,
		VerifiedPurchase: verifiedPurchase,
		CreatedAt:        time.Now(),
	}, nil
}
