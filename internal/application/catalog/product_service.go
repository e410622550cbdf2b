package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cachePrefix = "products:"

// ListCache caches public read results. Implementations live in the
// cache infrastructure package.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// PurchaseChecker answers whether a user bought a product
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, userID, productID uuid.UUID, statuses ...trade.OrderStatus) (bool, error)
}

// UserFinder loads reviewers
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	purchases   PurchaseChecker
	users       UserFinder
	cache       ListCache
	cacheTTL    time.Duration
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. cache may be nil.
func NewProductService(
	productRepo catalog.ProductRepository,
	purchases PurchaseChecker,
	users UserFinder,
	cache ListCache,
	cacheTTL time.Duration,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		purchases:   purchases,
		users:       users,
		cache:       cache,
		cacheTTL:    cacheTTL,
		events:      events,
		logger:      logger,
	}
}

// List returns a page of products. Only admins see inactive listings, and
// only public listings are cached.
func (s *ProductService) List(ctx context.Context, f ProductListFilter, isAdmin bool) (shared.Paginated[ProductResponse], error) {
	filter, err := toProductFilter(f, isAdmin)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	cacheable := s.cache != nil && !filter.IncludeInactive
	key := cachePrefix + "list:" + filterKey(filter)
	if cacheable {
		var cached shared.Paginated[ProductResponse]
		if found, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.logger.Warn("Product list cache read failed", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = ToProductResponse(p, false)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)

	if cacheable {
		if err := s.cache.Set(ctx, key, page, s.cacheTTL); err != nil {
			s.logger.Warn("Product list cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

func toProductFilter(f ProductListFilter, isAdmin bool) (catalog.ProductFilter, error) {
	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			Search:   f.Search,
		}.Normalize(),
		Featured:        f.Featured,
		IncludeInactive: isAdmin && f.IncludeInactive,
		Sort:            catalog.ProductSort(f.Sort),
	}
	if filter.Sort == "" {
		filter.Sort = catalog.SortNewest
	}
	if f.Category != "" {
		c := catalog.Category(f.Category)
		if !c.IsValid() {
			return filter, shared.NewDomainError("INVALID_CATEGORY", "Unknown category")
		}
		filter.Category = &c
	}
	if f.MinPrice != "" {
		v, err := decimal.NewFromString(f.MinPrice)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_PRICE", "min_price must be a number")
		}
		filter.MinPrice = &v
	}
	if f.MaxPrice != "" {
		v, err := decimal.NewFromString(f.MaxPrice)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_PRICE", "max_price must be a number")
		}
		filter.MaxPrice = &v
	}
	return filter, nil
}

// filterKey is a stable digest of a normalized filter
func filterKey(f catalog.ProductFilter) string {
	raw := fmt.Sprintf("%d|%d|%s|%s|%v|%v|%v|%v|%s", f.Page, f.PageSize, f.Search, f.Sort,
		derefCategory(f.Category), derefDecimal(f.MinPrice), derefDecimal(f.MaxPrice), derefBool(f.Featured), f.OrderDir)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func derefCategory(c *catalog.Category) string {
	if c == nil {
		return ""
	}
	return string(*c)
}

func derefDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func derefBool(b *bool) string {
	if b == nil {
		return ""
	}
	return fmt.Sprint(*b)
}

// Get returns a product with its reviews. Public reads count as a view;
// inactive listings are hidden from non-admins.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID, isAdmin bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive && !isAdmin {
		return nil, shared.ErrNotFound
	}

	if !isAdmin {
		if err := s.productRepo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn("Failed to count product view", zap.String("product_id", id.String()), zap.Error(err))
		} else {
			product.Views++
		}
	}

	resp := ToProductResponse(product, true)
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, adminID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(catalog.ProductDetails{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Category:     catalog.Category(req.Category),
		Features:     req.Features,
		Technologies: req.Technologies,
		Images:       req.Images,
		DemoURL:      req.DemoURL,
		Stock:        req.Stock,
		IsFeatured:   req.IsFeatured,
	}, &adminID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, product)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("admin_id", adminID.String()))

	resp := ToProductResponse(product, false)
	return &resp, nil
}

// Update applies a partial update
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := catalog.ProductDetails{
		Title:        product.Title,
		Description:  product.Description,
		Price:        product.Price,
		Category:     product.Category,
		Features:     product.Features,
		Technologies: product.Technologies,
		Images:       product.Images,
		DemoURL:      product.DemoURL,
		Stock:        product.Stock,
		IsFeatured:   product.IsFeatured,
	}
	if req.Title != nil {
		details.Title = *req.Title
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Price != nil {
		details.Price = *req.Price
	}
	if req.Category != nil {
		details.Category = catalog.Category(*req.Category)
	}
	if req.Features != nil {
		details.Features = req.Features
	}
	if req.Technologies != nil {
		details.Technologies = req.Technologies
	}
	if req.Images != nil {
		details.Images = req.Images
	}
	if req.DemoURL != nil {
		details.DemoURL = *req.DemoURL
	}
	switch {
	case req.UnlimitedStock:
		details.Stock = nil
	case req.Stock != nil:
		details.Stock = req.Stock
	}
	if req.IsFeatured != nil {
		details.IsFeatured = *req.IsFeatured
	}

	if err := product.Update(details); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != product.IsActive {
		if *req.IsActive {
			product.Activate()
		} else if err := product.Deactivate(); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, product)

	resp := ToProductResponse(product, false)
	return &resp, nil
}

// Deactivate soft-deletes a product. Orders keep their snapshot.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := product.Deactivate(); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	s.afterWrite(ctx, product)

	s.logger.Info("Product deactivated", zap.String("product_id", id.String()))
	return nil
}

// Categories lists every category with its active listing count
func (s *ProductService) Categories(ctx context.Context) ([]CategoryResponse, error) {
	key := cachePrefix + "categories"
	if s.cache != nil {
		var cached []CategoryResponse
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	counts, err := s.productRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[catalog.Category]int64, len(counts))
	for _, c := range counts {
		byCategory[c.Category] = c.Count
	}

	out := make([]CategoryResponse, len(catalog.Categories))
	for i, c := range catalog.Categories {
		out[i] = CategoryResponse{Value: string(c), Label: c.Label(), Count: byCategory[c]}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
			s.logger.Warn("Category cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// AddReview adds the caller's review. The review is marked as a verified
// purchase when the user has a delivered or completed order containing
// the product.
func (s *ProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.ErrNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	verified, err := s.purchases.HasPurchased(ctx, userID, productID, trade.OrderStatusDelivered, trade.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}

	review, err := product.AddReview(userID, user.Name, req.Rating, req.Comment, verified)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.AddReview(ctx, product, review); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this product")
		}
		return nil, err
	}
	s.afterWrite(ctx, product)

	resp := ToReviewResponse(review)
	return &resp, nil
}

// ListReviews returns a page of reviews, newest first
func (s *ProductService) ListReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) (shared.Paginated[ReviewResponse], error) {
	filter := shared.Filter{Page: page, PageSize: pageSize}.Normalize()

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return shared.Paginated[ReviewResponse]{}, err
	}

	reviews, total, err := s.productRepo.FindReviews(ctx, productID, filter)
	if err != nil {
		return shared.Paginated[ReviewResponse]{}, err
	}
	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = ToReviewResponse(&reviews[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// afterWrite publishes pending events and drops cached listings
func (s *ProductService) afterWrite(ctx context.Context, product *catalog.Product) {
	if err := shared.PublishAndClear(ctx, s.events, product); err != nil {
		s.logger.Warn("Failed to publish product events", zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, cachePrefix); err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
		}
	}
}
