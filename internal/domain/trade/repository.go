package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderFilter contains filter options for listing orders
type OrderFilter struct {
	shared.Filter
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	UserID        *uuid.UUID
	From          *time.Time
	To            *time.Time
}

// StatusCount is a (status, count) pair used by dashboards
type StatusCount struct {
	Status string
	Count  int64
}

// RevenueSample is one paid order reduced to its date and total
type RevenueSample struct {
	CreatedAt time.Time
	Total     decimal.Decimal
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error

	// Save updates the order with an optimistic version check
	Save(ctx context.Context, order *Order) error

	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists the orders of one user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)

	// FindAll lists orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)

	// CountByUser counts the orders of a user regardless of status
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// HasPurchased reports whether the user has an order in one of the
	// given statuses containing the product
	HasPurchased(ctx context.Context, userID, productID uuid.UUID, statuses ...OrderStatus) (bool, error)

	// Count counts all orders
	Count(ctx context.Context) (int64, error)

	// CountByStatus groups orders by status
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// CountByPaymentStatus groups orders by payment status
	CountByPaymentStatus(ctx context.Context) ([]StatusCount, error)

	// SumPaidRevenue sums totals of paid orders
	SumPaidRevenue(ctx context.Context) (decimal.Decimal, error)

	// PaidSince returns paid orders created at or after since
	PaidSince(ctx context.Context, since time.Time) ([]RevenueSample, error)

	// Recent returns the most recent orders
	Recent(ctx context.Context, limit int) ([]*Order, error)
}
