package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T, repo *GormProductRepository, title string, price float64, stock *int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{
		Title:        title,
		Description:  title + " description",
		Price:        decimal.NewFromFloat(price),
		Category:     catalog.CategoryWebApplication,
		Features:     []string{"Auth", "Billing"},
		Technologies: []string{"Go"},
		Stock:        stock,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func intPtr(v int) *int { return &v }

func TestGormProductRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	p := createTestProduct(t, repo, "Starter Kit", 49.99, intPtr(3))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Starter Kit", found.Title)
	assert.True(t, decimal.NewFromFloat(49.99).Equal(found.Price))
	assert.Equal(t, []string{"Auth", "Billing"}, found.Features)
	require.NotNil(t, found.Stock)
	assert.Equal(t, 3, *found.Stock)
	assert.Empty(t, found.Reviews)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))
	p := createTestProduct(t, repo, "Dashboard", 20, nil)

	t.Run("persists changes", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.SetPrice(decimal.NewFromInt(25)))
		require.NoError(t, loaded.SetStock(intPtr(7)))
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(25).Equal(reloaded.Price))
		assert.Equal(t, 7, *reloaded.Stock)
	})

	t.Run("stale copy loses after a reservation", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)

		_, err = repo.Reserve(ctx, p.ID, 1)
		require.NoError(t, err)

		require.NoError(t, stale.SetStock(intPtr(100)))
		assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("save does not rewind sales", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		sales := loaded.Sales
		require.NoError(t, repo.IncrementViews(ctx, p.ID))

		loaded.Activate()
		require.NoError(t, loaded.Deactivate())
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, sales, reloaded.Sales)
		assert.Equal(t, int64(1), reloaded.Views)
		assert.False(t, reloaded.IsActive)
	})
}

func TestGormProductRepository_Reserve(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	t.Run("decrements tracked stock and counts the sale", func(t *testing.T) {
		p := createTestProduct(t, repo, "Tracked", 10, intPtr(5))

		reserved, err := repo.Reserve(ctx, p.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, *reserved.Stock)
		assert.Equal(t, int64(2), reserved.Sales)
	})

	t.Run("unlimited stock stays unlimited", func(t *testing.T) {
		p := createTestProduct(t, repo, "Unlimited", 10, nil)

		reserved, err := repo.Reserve(ctx, p.ID, 50)
		require.NoError(t, err)
		assert.Nil(t, reserved.Stock)
		assert.Equal(t, int64(50), reserved.Sales)
	})

	t.Run("insufficient stock leaves the row untouched", func(t *testing.T) {
		p := createTestProduct(t, repo, "Scarce", 10, intPtr(1))

		_, err := repo.Reserve(ctx, p.ID, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		reloaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, *reloaded.Stock)
		assert.Equal(t, int64(0), reloaded.Sales)
	})

	t.Run("inactive product is unavailable", func(t *testing.T) {
		p := createTestProduct(t, repo, "Retired", 10, nil)
		require.NoError(t, p.Deactivate())
		require.NoError(t, repo.Save(ctx, p))

		_, err := repo.Reserve(ctx, p.ID, 1)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", de.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := repo.Reserve(ctx, uuid.New(), 1)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", de.Code)
	})

	t.Run("concurrent buyers never oversell", func(t *testing.T) {
		p := createTestProduct(t, repo, "Last Units", 10, intPtr(5))

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Reserve(ctx, p.ID, 1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		reloaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, *reloaded.Stock)
		assert.Equal(t, int64(5), reloaded.Sales)
	})
}

func TestGormProductRepository_Release(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))
	p := createTestProduct(t, repo, "Refundable", 10, intPtr(4))

	_, err := repo.Reserve(ctx, p.ID, 3)
	require.NoError(t, err)
	require.NoError(t, repo.Release(ctx, p.ID, 3))

	reloaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, *reloaded.Stock)
	assert.Equal(t, int64(0), reloaded.Sales)

	// sales never go negative
	require.NoError(t, repo.Release(ctx, p.ID, 2))
	reloaded, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.Sales)
	assert.Equal(t, 6, *reloaded.Stock)
}

func TestGormProductRepository_Reviews(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))
	p := createTestProduct(t, repo, "Reviewed", 10, nil)

	userA, userB := uuid.New(), uuid.New()

	loaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	review, err := loaded.AddReview(userA, "Ann", 5, "Great", true)
	require.NoError(t, err)
	require.NoError(t, repo.AddReview(ctx, loaded, review))

	loaded, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	review, err = loaded.AddReview(userB, "Ben", 2, "Meh", false)
	require.NoError(t, err)
	require.NoError(t, repo.AddReview(ctx, loaded, review))

	reloaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Reviews, 2)
	assert.Equal(t, 2, reloaded.Rating.Count)
	assert.True(t, decimal.NewFromFloat(3.5).Equal(reloaded.Rating.Average))
	assert.True(t, reloaded.HasReviewFrom(userA))

	reviews, total, err := repo.FindReviews(ctx, p.ID, shared.Filter{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reviews, 1)

	t.Run("second review by the same user is rejected by the store", func(t *testing.T) {
		fresh, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		dup, err := catalog.NewReview(p.ID, userA, "Ann", 1, "again", false)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.AddReview(ctx, fresh, dup), shared.ErrAlreadyExists)
	})
}

func TestGormProductRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))

	cheap := createTestProduct(t, repo, "Cheap Theme", 5, nil)
	createTestProduct(t, repo, "Mid Plugin", 50, nil)
	pricey := createTestProduct(t, repo, "Premium Suite", 500, nil)
	hidden := createTestProduct(t, repo, "Hidden", 1, nil)
	require.NoError(t, hidden.Deactivate())
	require.NoError(t, repo.Save(ctx, hidden))

	t.Run("inactive products are excluded by default", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		_, total, err = repo.FindAll(ctx, catalog.ProductFilter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("price range and sort", func(t *testing.T) {
		minPrice := decimal.NewFromInt(10)
		products, total, err := repo.FindAll(ctx, catalog.ProductFilter{MinPrice: &minPrice, Sort: catalog.SortPriceDesc})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, pricey.ID, products[0].ID)
	})

	t.Run("search", func(t *testing.T) {
		products, _, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Search: "theme"}})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, cheap.ID, products[0].ID)
	})

	t.Run("category counts only active listings", func(t *testing.T) {
		counts, err := repo.CountByCategory(ctx)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, int64(3), counts[0].Count)

		active, err := repo.CountActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), active)
	})

	t.Run("top selling", func(t *testing.T) {
		_, err := repo.Reserve(ctx, pricey.ID, 2)
		require.NoError(t, err)
		top, err := repo.TopSelling(ctx, 5)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, pricey.ID, top[0].ID)
	})

	t.Run("find by ids", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []uuid.UUID{cheap.ID, pricey.ID})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}
