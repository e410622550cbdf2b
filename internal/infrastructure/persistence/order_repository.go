package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	order.MarkStored()
	return nil
}

// Save updates the order row with an optimistic version check.
// Items are immutable after placement.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := updateVersioned(r.db.WithContext(ctx), model, order.ID, order.StoredVersion(), "order_number", "user_id"); err != nil {
		return translateError(err)
	}
	order.MarkStored()
	return nil
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the orders of one user, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*trade.Order, int64, error) {
	return r.FindAll(ctx, trade.OrderFilter{Filter: filter, UserID: &userID})
}

// FindAll lists orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]*trade.Order, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderModels []*models.OrderModel
	err := paginate(query.Preload("Items").Order(orderClause(filter.OrderBy, OrderSortFields, "created_at", filter.OrderDir)), filter.Filter).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, err
	}
	return toOrders(orderModels), total, nil
}

// CountByUser counts the orders of a user regardless of status
func (r *GormOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// HasPurchased reports whether the user has an order in one of the given
// statuses containing the product. No statuses means any status.
func (r *GormOrderRepository) HasPurchased(ctx context.Context, userID, productID uuid.UUID, statuses ...trade.OrderStatus) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID)
	if len(statuses) > 0 {
		query = query.Where("orders.status IN ?", statuses)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error
	return count, err
}

// CountByStatus groups orders by status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) ([]trade.StatusCount, error) {
	return r.countGrouped(ctx, "status")
}

// CountByPaymentStatus groups orders by payment status
func (r *GormOrderRepository) CountByPaymentStatus(ctx context.Context) ([]trade.StatusCount, error) {
	return r.countGrouped(ctx, "payment_status")
}

func (r *GormOrderRepository) countGrouped(ctx context.Context, column string) ([]trade.StatusCount, error) {
	var rows []trade.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select(column + " AS status, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&rows).Error
	return rows, err
}

// SumPaidRevenue sums totals of paid orders
func (r *GormOrderRepository) SumPaidRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("SUM(total)").
		Where("payment_status = ?", trade.PaymentStatusPaid).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// PaidSince returns paid orders created at or after since, oldest first
func (r *GormOrderRepository) PaidSince(ctx context.Context, since time.Time) ([]trade.RevenueSample, error) {
	var rows []trade.RevenueSample
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("created_at, total").
		Where("payment_status = ? AND created_at >= ?", trade.PaymentStatusPaid, since).
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// Recent returns the most recent orders
func (r *GormOrderRepository) Recent(ctx context.Context, limit int) ([]*trade.Order, error) {
	var orderModels []*models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toOrders(orderModels), nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter trade.OrderFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", likePattern(filter.Search))
	}
	return query
}

func toOrders(orderModels []*models.OrderModel) []*trade.Order {
	orders := make([]*trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = model.ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
