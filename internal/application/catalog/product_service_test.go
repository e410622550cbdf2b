package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, f catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context) ([]catalog.CategoryCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.CategoryCount), args.Error(1)
}

func (m *MockProductRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) TopSelling(ctx context.Context, limit int) ([]*catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) AddReview(ctx context.Context, p *catalog.Product, r *catalog.Review) error {
	return m.Called(ctx, p, r).Error(0)
}

func (m *MockProductRepository) FindReviews(ctx context.Context, productID uuid.UUID, f shared.Filter) ([]catalog.Review, int64, error) {
	args := m.Called(ctx, productID, f)
	return args.Get(0).([]catalog.Review), args.Get(1).(int64), args.Error(2)
}

// MockPurchaseChecker is a mock implementation of PurchaseChecker
type MockPurchaseChecker struct {
	mock.Mock
}

func (m *MockPurchaseChecker) HasPurchased(ctx context.Context, userID, productID uuid.UUID, statuses ...trade.OrderStatus) (bool, error) {
	args := m.Called(ctx, userID, productID, statuses)
	return args.Bool(0), args.Error(1)
}

// MockUserFinder is a mock implementation of UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type productFixture struct {
	svc       *ProductService
	repo      *MockProductRepository
	purchases *MockPurchaseChecker
	users     *MockUserFinder
	cache     *cache.InMemoryQueryCache
}

func newProductFixture() *productFixture {
	f := &productFixture{
		repo:      new(MockProductRepository),
		purchases: new(MockPurchaseChecker),
		users:     new(MockUserFinder),
		cache:     cache.NewInMemoryQueryCache(),
	}
	f.svc = NewProductService(f.repo, f.purchases, f.users, f.cache, time.Minute, nil, zap.NewNop())
	return f
}

func createTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	stock := 5
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Title:    "Admin Dashboard",
		Price:    decimal.NewFromInt(49),
		Category: catalog.CategoryUIKit,
		Stock:    &stock,
	}, nil)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	f := newProductFixture()
	adminID := uuid.New()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := f.svc.Create(context.Background(), adminID, CreateProductRequest{
		Title:    "Landing Page Kit",
		Price:    decimal.RequireFromString("19.99"),
		Category: "website-template",
		Features: []string{"Responsive", "Responsive", " "},
	})

	require.NoError(t, err)
	assert.Equal(t, "Landing Page Kit", resp.Title)
	assert.True(t, resp.IsUnlimitedStock)
	assert.True(t, resp.InStock)
	assert.Equal(t, []string{"Responsive"}, resp.Features)
	assert.Equal(t, &adminID, resp.CreatedBy)
}

func TestProductService_Create_NegativePrice(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateProductRequest{
		Title:    "Broken",
		Price:    decimal.NewFromInt(-1),
		Category: "plugin",
	})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PRICE", de.Code)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_List_CachesPublicResults(t *testing.T) {
	f := newProductFixture()
	p := createTestProduct(t)
	f.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(pf catalog.ProductFilter) bool {
		return !pf.IncludeInactive && pf.Sort == catalog.SortNewest && pf.MinPrice != nil && pf.MinPrice.Equal(decimal.NewFromInt(10))
	})).Return([]*catalog.Product{p}, int64(1), nil).Once()

	q := ProductListFilter{MinPrice: "10", IncludeInactive: true}
	first, err := f.svc.List(context.Background(), q, false)
	require.NoError(t, err)
	second, err := f.svc.List(context.Background(), q, false)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, p.ID, second.Items[0].ID)
	f.repo.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestProductService_List_AdminBypassesCache(t *testing.T) {
	f := newProductFixture()
	f.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(pf catalog.ProductFilter) bool {
		return pf.IncludeInactive
	})).Return([]*catalog.Product{}, int64(0), nil)

	for i := 0; i < 2; i++ {
		_, err := f.svc.List(context.Background(), ProductListFilter{IncludeInactive: true}, true)
		require.NoError(t, err)
	}
	f.repo.AssertNumberOfCalls(t, "FindAll", 2)
}

func TestProductService_Get(t *testing.T) {
	t.Run("public read counts a view", func(t *testing.T) {
		f := newProductFixture()
		p := createTestProduct(t)
		f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.repo.On("IncrementViews", mock.Anything, p.ID).Return(nil)

		resp, err := f.svc.Get(context.Background(), p.ID, false)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Views)
		assert.NotNil(t, resp.Reviews)
	})

	t.Run("inactive is hidden from customers", func(t *testing.T) {
		f := newProductFixture()
		p := createTestProduct(t)
		require.NoError(t, p.Deactivate())
		f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

		_, err := f.svc.Get(context.Background(), p.ID, false)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		resp, err := f.svc.Get(context.Background(), p.ID, true)
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
		f.repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	f := newProductFixture()
	p := createTestProduct(t)
	f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.repo.On("Save", mock.Anything, p).Return(nil)

	// warm the cache so we can see it dropped
	require.NoError(t, f.cache.Set(context.Background(), cachePrefix+"list:x", 1, time.Minute))

	price := decimal.NewFromInt(59)
	inactive := false
	resp, err := f.svc.Update(context.Background(), p.ID, UpdateProductRequest{
		Price:          &price,
		UnlimitedStock: true,
		IsActive:       &inactive,
	})

	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(price))
	assert.Equal(t, "Admin Dashboard", resp.Title)
	assert.Nil(t, resp.Stock)
	assert.False(t, resp.IsActive)

	var v int
	found, _ := f.cache.Get(context.Background(), cachePrefix+"list:x", &v)
	assert.False(t, found)
}

func TestProductService_Deactivate(t *testing.T) {
	f := newProductFixture()
	p := createTestProduct(t)
	f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.repo.On("Save", mock.Anything, p).Return(nil)

	require.NoError(t, f.svc.Deactivate(context.Background(), p.ID))
	assert.False(t, p.IsActive)

	var de *shared.DomainError
	require.ErrorAs(t, f.svc.Deactivate(context.Background(), p.ID), &de)
	assert.Equal(t, "ALREADY_INACTIVE", de.Code)
}

func TestProductService_Categories(t *testing.T) {
	f := newProductFixture()
	f.repo.On("CountByCategory", mock.Anything).Return([]catalog.CategoryCount{
		{Category: catalog.CategoryPlugin, Count: 3},
	}, nil).Once()

	cats, err := f.svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, len(catalog.Categories))

	for _, c := range cats {
		if c.Value == "plugin" {
			assert.Equal(t, int64(3), c.Count)
			assert.Equal(t, "Plugin", c.Label)
		} else {
			assert.Zero(t, c.Count)
		}
	}

	_, err = f.svc.Categories(context.Background())
	require.NoError(t, err)
	f.repo.AssertNumberOfCalls(t, "CountByCategory", 1)
}

func TestProductService_AddReview(t *testing.T) {
	t.Run("verified purchase", func(t *testing.T) {
		f := newProductFixture()
		p := createTestProduct(t)
		user, err := identity.NewUser("Rita Reviewer", "rita@example.com", "password123")
		require.NoError(t, err)

		f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		f.purchases.On("HasPurchased", mock.Anything, user.ID, p.ID,
			[]trade.OrderStatus{trade.OrderStatusDelivered, trade.OrderStatusCompleted}).Return(true, nil)
		f.repo.On("AddReview", mock.Anything, p, mock.AnythingOfType("*catalog.Review")).Return(nil)

		resp, err := f.svc.AddReview(context.Background(), p.ID, user.ID, CreateReviewRequest{Rating: 4, Comment: "Solid"})

		require.NoError(t, err)
		assert.True(t, resp.VerifiedPurchase)
		assert.Equal(t, "Rita Reviewer", resp.UserName)
		assert.Equal(t, 1, p.Rating.Count)
		assert.True(t, p.Rating.Average.Equal(decimal.NewFromInt(4)))
	})

	t.Run("duplicate at the database", func(t *testing.T) {
		f := newProductFixture()
		p := createTestProduct(t)
		user, err := identity.NewUser("Rita Reviewer", "rita@example.com", "password123")
		require.NoError(t, err)

		f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		f.purchases.On("HasPurchased", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		f.repo.On("AddReview", mock.Anything, p, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err = f.svc.AddReview(context.Background(), p.ID, user.ID, CreateReviewRequest{Rating: 5})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_REVIEWED", de.Code)
	})

	t.Run("inactive product", func(t *testing.T) {
		f := newProductFixture()
		p := createTestProduct(t)
		require.NoError(t, p.Deactivate())
		f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

		_, err := f.svc.AddReview(context.Background(), p.ID, uuid.New(), CreateReviewRequest{Rating: 5})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_ListReviews(t *testing.T) {
	f := newProductFixture()
	p := createTestProduct(t)
	f.repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.repo.On("FindReviews", mock.Anything, p.ID, mock.MatchedBy(func(sf shared.Filter) bool {
		return sf.Page == 1 && sf.PageSize == 20
	})).Return([]catalog.Review{{ID: uuid.New(), Rating: 5}}, int64(1), nil)

	page, err := f.svc.ListReviews(context.Background(), p.ID, 0, 0)

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.TotalPages)
}
