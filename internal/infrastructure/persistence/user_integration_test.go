//go:build integration

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/support"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_DeleteStaffWithRepliesAndReviews(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	users := NewGormUserRepository(db)
	products := NewGormProductRepository(db)
	messages := NewGormMessageRepository(db)

	staff, err := identity.NewUser("Support Lead", "lead@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, staff))
	buyer, err := identity.NewUser("Buyer", "buyer@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, buyer))

	p, err := catalog.NewProduct(catalog.ProductDetails{
		Title:    "Admin Dashboard",
		Price:    decimal.NewFromInt(59),
		Category: catalog.CategoryWebApplication,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, products.Create(ctx, p))
	for _, r := range []struct {
		user  uuid.UUID
		stars int
	}{{staff.ID, 1}, {buyer.ID, 4}} {
		loaded, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		review, err := loaded.AddReview(r.user, "Reviewer", r.stars, "", false)
		require.NoError(t, err)
		require.NoError(t, products.AddReview(ctx, loaded, review))
	}

	msg, err := support.NewMessage(support.Submission{
		Type:    support.MessageTypeSupport,
		Name:    "Buyer",
		Email:   "buyer@example.com",
		Subject: "Licence key",
		Body:    "My key does not activate.",
	}, &buyer.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NoError(t, messages.Create(ctx, msg))
	reply, err := msg.AddResponse(staff.ID, "New key sent", false)
	require.NoError(t, err)
	require.NoError(t, messages.AddResponse(ctx, msg, reply))

	require.NoError(t, users.Delete(ctx, staff.ID))

	thread, err := messages.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, thread.Responses, 1)
	assert.Equal(t, uuid.Nil, thread.Responses[0].AuthorID)
	require.NotNil(t, thread.UserID)
	assert.Equal(t, buyer.ID, *thread.UserID)

	reloaded, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Rating.Count)
	assert.True(t, decimal.NewFromInt(4).Equal(reloaded.Rating.Average))
}
