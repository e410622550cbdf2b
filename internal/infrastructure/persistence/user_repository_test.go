package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/support"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestUser(name, email string, role identity.Role) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      "$2a$12$hash",
		Role:              role,
	}
}

// newMockUserRepository creates a GormUserRepository with a mocked SQL connection
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func TestGormUserRepository_FindByID_Mock(t *testing.T) {
	t.Run("maps record not found to domain error", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads user columns", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "name", "email", "role", "is_verified"}).
			AddRow(id.String(), 3, "Ada Lovelace", "ada@example.com", "admin", true)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		user, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.True(t, user.IsAdmin())
		assert.Equal(t, 3, user.StoredVersion())
	})
}

func TestGormUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	user := newTestUser("Ada Lovelace", "ada@example.com", identity.RoleUser)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("find by email is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  ADA@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, identity.RoleUser, found.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newTestUser("Other", "ada@example.com", identity.RoleUser))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		exists, err := repo.ExistsByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("update bumps the stored version", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.SetRole(identity.RoleAdmin))
		require.NoError(t, repo.Update(ctx, loaded))

		reloaded, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, reloaded.Role)
		assert.Equal(t, 2, reloaded.Version)
	})

	t.Run("stale update is a concurrency conflict", func(t *testing.T) {
		first, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)

		require.NoError(t, first.UpdateProfile("Ada King", "", "", ""))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.UpdateProfile("Ada Byron", "", "", ""))
		assert.ErrorIs(t, repo.Update(ctx, second), shared.ErrConcurrencyConflict)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("delete existing", func(t *testing.T) {
		victim := newTestUser("Temp", "temp@example.com", identity.RoleUser)
		require.NoError(t, repo.Create(ctx, victim))
		require.NoError(t, repo.Delete(ctx, victim.ID))

		_, err := repo.FindByID(ctx, victim.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestGormUserRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newTestUser("Alice", "alice@example.com", identity.RoleUser)))
	require.NoError(t, repo.Create(ctx, newTestUser("Bob", "bob@example.com", identity.RoleUser)))
	require.NoError(t, repo.Create(ctx, newTestUser("Root", "root@example.com", identity.RoleAdmin)))

	t.Run("search matches name or email", func(t *testing.T) {
		users, total, err := repo.FindAll(ctx, identity.UserFilter{Filter: shared.Filter{Search: "ALI"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].Name)
	})

	t.Run("role filter", func(t *testing.T) {
		admin := identity.RoleAdmin
		users, total, err := repo.FindAll(ctx, identity.UserFilter{Role: &admin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Root", users[0].Name)
	})

	t.Run("pagination keeps the total", func(t *testing.T) {
		users, total, err := repo.FindAll(ctx, identity.UserFilter{Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "name", OrderDir: "asc"}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, users, 1)
		assert.Equal(t, "Root", users[0].Name)
	})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormUserRepository_DeleteKeepsContent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	products := NewGormProductRepository(db)
	messages := NewGormMessageRepository(db)

	staff := newTestUser("Grace", "grace@example.com", identity.RoleAdmin)
	require.NoError(t, users.Create(ctx, staff))

	p := createTestProduct(t, products, "Analytics Kit", 30, nil)
	for _, r := range []struct {
		userID uuid.UUID
		stars  int
	}{{staff.ID, 5}, {uuid.New(), 2}} {
		loaded, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		review, err := loaded.AddReview(r.userID, "Reviewer", r.stars, "", false)
		require.NoError(t, err)
		require.NoError(t, products.AddReview(ctx, loaded, review))
	}

	msg, err := support.NewMessage(support.Submission{
		Type:    support.MessageTypeSupport,
		Name:    "Grace",
		Email:   "grace@example.com",
		Subject: "Invoice copy",
		Body:    "Please resend my invoice.",
	}, &staff.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NoError(t, messages.Create(ctx, msg))
	reply, err := msg.AddResponse(staff.ID, "Sent again", false)
	require.NoError(t, err)
	require.NoError(t, messages.AddResponse(ctx, msg, reply))

	require.NoError(t, users.Delete(ctx, staff.ID))

	t.Run("ratings drop the deleted reviews", func(t *testing.T) {
		reloaded, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Reviews, 1)
		assert.Equal(t, 1, reloaded.Rating.Count)
		assert.True(t, decimal.NewFromInt(2).Equal(reloaded.Rating.Average), reloaded.Rating.Average.String())
		assert.False(t, reloaded.HasReviewFrom(staff.ID))
	})

	t.Run("message thread survives without the author", func(t *testing.T) {
		reloaded, err := messages.FindByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.UserID)
		require.Len(t, reloaded.Responses, 1)
		assert.Equal(t, "Sent again", reloaded.Responses[0].Content)
		assert.Equal(t, uuid.Nil, reloaded.Responses[0].AuthorID)
	})
}
