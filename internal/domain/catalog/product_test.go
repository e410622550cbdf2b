package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validDetails() ProductDetails {
	return ProductDetails{
		Title:        "  SaaS Starter Kit ",
		Description:  "Next.js + Go boilerplate",
		Price:        decimal.NewFromFloat(49.99),
		Category:     CategoryWebApplication,
		Features:     []string{"Auth", "Billing", "Auth", " "},
		Technologies: []string{"Go", "React"},
		Stock:        intPtr(5),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product", func(t *testing.T) {
		creator := uuid.New()
		p, err := NewProduct(validDetails(), &creator)

		require.NoError(t, err)
		assert.Equal(t, "SaaS Starter Kit", p.Title)
		assert.True(t, p.IsActive)
		assert.Equal(t, []string{"Auth", "Billing"}, p.Features)
		assert.Equal(t, 5, *p.Stock)
		assert.Equal(t, &creator, p.CreatedBy)
		assert.True(t, p.Rating.Average.IsZero())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		d := validDetails()
		d.Price = decimal.NewFromInt(-1)
		_, err := NewProduct(d, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		d := validDetails()
		d.Category = Category("furniture")
		_, err := NewProduct(d, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		d := validDetails()
		d.Stock = intPtr(-2)
		_, err := NewProduct(d, nil)
		assert.Error(t, err)
	})

	t.Run("nil stock is unlimited", func(t *testing.T) {
		d := validDetails()
		d.Stock = nil
		p, err := NewProduct(d, nil)
		require.NoError(t, err)
		assert.True(t, p.HasUnlimitedStock())
		assert.NoError(t, p.CanFulfil(1000))
	})
}

func TestProduct_CanFulfil(t *testing.T) {
	p, err := NewProduct(validDetails(), nil)
	require.NoError(t, err)

	assert.NoError(t, p.CanFulfil(5))

	err = p.CanFulfil(6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock")

	assert.Error(t, p.CanFulfil(0))

	require.NoError(t, p.Deactivate())
	err = p.CanFulfil(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	assert.Error(t, p.Deactivate())
	p.Activate()
	assert.True(t, p.IsActive)
}

func TestProduct_AddReview(t *testing.T) {
	p, err := NewProduct(validDetails(), nil)
	require.NoError(t, err)

	alice, bob := uuid.New(), uuid.New()

	_, err = p.AddReview(alice, "Alice", 5, "Great", true)
	require.NoError(t, err)
	_, err = p.AddReview(bob, "Bob", 2, "Meh", false)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Rating.Count)
	assert.Equal(t, "3.5", p.Rating.Average.String())

	_, err = p.AddReview(alice, "Alice", 4, "again", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already reviewed")

	_, err = p.AddReview(uuid.New(), "Carol", 6, "", false)
	assert.Error(t, err)
}

func TestProduct_RecalculateRatingRounds(t *testing.T) {
	p := &Product{}
	p.Reviews = []Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	p.RecalculateRating()
	assert.Equal(t, "4.3", p.Rating.Average.String())
	assert.Equal(t, 3, p.Rating.Count)

	p.Reviews = nil
	p.RecalculateRating()
	assert.Equal(t, 0, p.Rating.Count)
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("").IsValid())
	assert.Equal(t, "UI Kit", CategoryUIKit.Label())
	assert.Equal(t, "mystery", Category("mystery").Label())
}
