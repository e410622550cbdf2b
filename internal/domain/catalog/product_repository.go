package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductSort is a named listing order
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
	SortPopular   ProductSort = "popular"
)

// ProductFilter contains filter options for listing products
type ProductFilter struct {
	shared.Filter
	Category        *Category
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Featured        *bool
	IncludeInactive bool
	Sort            ProductSort
}

// CategoryCount is the number of active listings in a category
type CategoryCount struct {
	Category Category
	Count    int64
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Save updates a product, failing on a stale version
	Save(ctx context.Context, product *Product) error

	// FindByID loads a product with its reviews
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs loads products without reviews
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindAll lists products matching the filter and returns the total count
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)

	// CountByCategory counts active products per category
	CountByCategory(ctx context.Context) ([]CategoryCount, error)

	// CountActive counts active products
	CountActive(ctx context.Context) (int64, error)

	// TopSelling returns the best-selling products
	TopSelling(ctx context.Context, limit int) ([]*Product, error)

	// IncrementViews atomically adds one view
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// AddReview persists a review and the product's rating aggregate
	AddReview(ctx context.Context, product *Product, review *Review) error

	// FindReviews lists the reviews of a product, newest first
	FindReviews(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, int64, error)
}

// ErrProductUnavailable is returned by Reserve when the product is missing
// or inactive. It is a client error, not a 404.
var ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product not found or inactive")

// StockRepository performs the stock changes of order placement and
// cancellation. Implementations must be safe under concurrent callers.
type StockRepository interface {
	// Reserve decrements tracked stock by qty and increments sales, only if
	// the product is active and has at least qty units (or unlimited stock).
	// It returns the product as it was read inside the reservation, or
	// ErrProductUnavailable / shared.ErrInsufficientStock.
	Reserve(ctx context.Context, productID uuid.UUID, qty int) (*Product, error)

	// Release puts qty units back and decrements sales
	Release(ctx context.Context, productID uuid.UUID, qty int) error
}
