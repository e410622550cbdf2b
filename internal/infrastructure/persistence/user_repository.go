package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	user.MarkStored()
	return nil
}

// Update saves an existing user with an optimistic version check
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := updateVersioned(r.db.WithContext(ctx), model, user.ID, user.StoredVersion()); err != nil {
		return translateError(err)
	}
	user.MarkStored()
	return nil
}

// Delete deletes a user by ID
//
// In the same transaction the user's reviews are removed and the rating of
// every product they reviewed is recomputed. Messages and message responses
// they wrote are kept with the user reference cleared.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reviewed []uuid.UUID
		if err := tx.Model(&models.ReviewModel{}).
			Where("user_id = ?", id).
			Distinct().
			Pluck("product_id", &reviewed).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ReviewModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ResponseModel{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MessageModel{}).
			Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.UserModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		for _, productID := range reviewed {
			if err := refreshRating(tx, productID); err != nil {
				return err
			}
		}
		return nil
	})
}

// refreshRating rewrites a product's rating aggregate from its reviews
func refreshRating(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		Total int
		Count int
	}
	if err := tx.Model(&models.ReviewModel{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return err
	}
	rating := catalog.NewRating(agg.Total, agg.Count)
	return tx.Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating_average": rating.Average,
			"rating_count":   rating.Count,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		}).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns users matching the filter with pagination
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userModels []*models.UserModel
	err := paginate(query.Order(orderClause(filter.OrderBy, UserSortFields, "created_at", filter.OrderDir)), filter.Filter).
		Find(&userModels).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]*identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = model.ToDomain()
	}
	return users, total, nil
}

// Count returns the number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, filter identity.UserFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}
	return query
}

func normalizeEmail(email string) string {
	if normalized, err := identity.NormalizeEmail(email); err == nil {
		return normalized
	}
	return email
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
