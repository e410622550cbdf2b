package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository and StockRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	product.MarkStored()
	return nil
}

// Save updates a product, failing on a stale version.
// Views and sales are owned by the counters and are not overwritten.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := updateVersioned(r.db.WithContext(ctx), model, product.ID, product.StoredVersion(), "views", "sales"); err != nil {
		return translateError(err)
	}
	product.MarkStored()
	return nil
}

// FindByID loads a product with its reviews, newest first
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}

	var reviewModels []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", id).
		Order("created_at DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, err
	}

	product := model.ToDomain()
	for i := range reviewModels {
		product.Reviews = append(product.Reviews, reviewModels[i].ToDomain())
	}
	return product, nil
}

// FindByIDs loads products without reviews
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}
	var productModels []*models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// FindAll lists products matching the filter and returns the total count
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productModels []*models.ProductModel
	if err := paginate(query.Order(productOrder(filter)), filter.Filter).Find(&productModels).Error; err != nil {
		return nil, 0, err
	}
	return toProducts(productModels), total, nil
}

// CountByCategory counts active products per category
func (r *GormProductRepository) CountByCategory(ctx context.Context) ([]catalog.CategoryCount, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("category, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("category").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]catalog.CategoryCount, len(rows))
	for i, row := range rows {
		counts[i] = catalog.CategoryCount{Category: catalog.Category(row.Category), Count: row.Count}
	}
	return counts, nil
}

// CountActive counts active products
func (r *GormProductRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// TopSelling returns the best-selling products
func (r *GormProductRepository) TopSelling(ctx context.Context, limit int) ([]*catalog.Product, error) {
	var productModels []*models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("sales > ?", 0).
		Order("sales DESC, created_at DESC").
		Limit(limit).
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// IncrementViews atomically adds one view
func (r *GormProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// AddReview inserts the review and writes the rating aggregate in one transaction
func (r *GormProductRepository) AddReview(ctx context.Context, product *catalog.Product, review *catalog.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ReviewModelFromDomain(review)).Error; err != nil {
			return translateError(err)
		}
		result := tx.Model(&models.ProductModel{}).
			Where("id = ? AND version = ?", product.ID, product.StoredVersion()).
			Updates(map[string]any{
				"rating_average": product.Rating.Average,
				"rating_count":   product.Rating.Count,
				"version":        product.Version,
				"updated_at":     product.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	product.MarkStored()
	return nil
}

// FindReviews lists the reviews of a product, newest first
func (r *GormProductRepository) FindReviews(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.Review, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ReviewModel{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviewModels []models.ReviewModel
	if err := paginate(query.Order("created_at DESC"), filter).Find(&reviewModels).Error; err != nil {
		return nil, 0, err
	}

	reviews := make([]catalog.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = reviewModels[i].ToDomain()
	}
	return reviews, total, nil
}

// Reserve takes qty units with a single conditional UPDATE, so two buyers
// racing for the last unit cannot both succeed. When no row matches, the
// product is reloaded to report why.
func (r *GormProductRepository) Reserve(ctx context.Context, productID uuid.UUID, qty int) (*catalog.Product, error) {
	if qty < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&models.ProductModel{}).
		Where("id = ? AND is_active = ? AND (stock IS NULL OR stock >= ?)", productID, true, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("CASE WHEN stock IS NULL THEN NULL ELSE stock - ? END", qty),
			"sales":      gorm.Expr("sales + ?", qty),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	var model models.ProductModel
	if err := db.First(&model, "id = ?", productID).Error; err != nil {
		if result.RowsAffected == 0 {
			return nil, shared.NewDomainError(catalog.ErrProductUnavailable.Code, "Product "+productID.String()+" not found or inactive")
		}
		return nil, err
	}
	product := model.ToDomain()

	if result.RowsAffected == 0 {
		if !product.IsActive {
			return nil, shared.NewDomainError(catalog.ErrProductUnavailable.Code, "Product "+product.Title+" not found or inactive")
		}
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+product.Title)
	}
	return product, nil
}

// Release puts qty units back and decrements sales, never below zero
func (r *GormProductRepository) Release(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 1 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("CASE WHEN stock IS NULL THEN NULL ELSE stock + ? END", qty),
			"sales":      gorm.Expr("CASE WHEN sales >= ? THEN sales - ? ELSE 0 END", qty, qty),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}).Error
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return query
}

func productOrder(filter catalog.ProductFilter) string {
	switch filter.Sort {
	case catalog.SortPriceAsc:
		return "price ASC, created_at DESC"
	case catalog.SortPriceDesc:
		return "price DESC, created_at DESC"
	case catalog.SortRating:
		return "rating_average DESC, rating_count DESC"
	case catalog.SortPopular:
		return "sales DESC, views DESC"
	case catalog.SortNewest:
		return "created_at DESC"
	}
	return orderClause(filter.OrderBy, ProductSortFields, "created_at", filter.OrderDir)
}

func toProducts(productModels []*models.ProductModel) []*catalog.Product {
	products := make([]*catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = model.ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements both repository interfaces
var (
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
	_ catalog.StockRepository   = (*GormProductRepository)(nil)
)
