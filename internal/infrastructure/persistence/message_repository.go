package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/support"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create inserts a message
func (r *GormMessageRepository) Create(ctx context.Context, message *support.Message) error {
	model := models.MessageModelFromDomain(message)
	if err := r.db.WithContext(ctx).Omit("Responses").Create(model).Error; err != nil {
		return translateError(err)
	}
	message.MarkStored()
	return nil
}

// Save updates the message row with an optimistic version check
func (r *GormMessageRepository) Save(ctx context.Context, message *support.Message) error {
	return r.save(r.db.WithContext(ctx), message)
}

func (r *GormMessageRepository) save(db *gorm.DB, message *support.Message) error {
	model := models.MessageModelFromDomain(message)
	if err := updateVersioned(db, model, message.ID, message.StoredVersion()); err != nil {
		return translateError(err)
	}
	message.MarkStored()
	return nil
}

// Delete removes a message and its thread
func (r *GormMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.ResponseModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MessageModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID loads a message with its responses in order
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Message, error) {
	var model models.MessageModel
	if err := r.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists messages matching the filter. Responses are not loaded.
func (r *GormMessageRepository) FindAll(ctx context.Context, filter support.MessageFilter) ([]*support.Message, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MessageModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messageModels []*models.MessageModel
	err := paginate(query.Order(orderClause(filter.OrderBy, MessageSortFields, "created_at", filter.OrderDir)), filter.Filter).
		Find(&messageModels).Error
	if err != nil {
		return nil, 0, err
	}

	messages := make([]*support.Message, len(messageModels))
	for i, model := range messageModels {
		messages[i] = model.ToDomain()
	}
	return messages, total, nil
}

// CountByStatus groups messages by status
func (r *GormMessageRepository) CountByStatus(ctx context.Context) ([]support.StatusCount, error) {
	var rows []support.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

// Count counts all messages
func (r *GormMessageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MessageModel{}).Count(&count).Error
	return count, err
}

// AddResponse inserts the response and saves the message in one transaction
func (r *GormMessageRepository) AddResponse(ctx context.Context, message *support.Message, response *support.Response) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ResponseModelFromDomain(response)).Error; err != nil {
			return err
		}
		return r.save(tx, message)
	})
}

func (r *GormMessageRepository) applyFilter(query *gorm.DB, filter support.MessageFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?", pattern, pattern, pattern)
	}
	return query
}

// Ensure GormMessageRepository implements MessageRepository
var _ support.MessageRepository = (*GormMessageRepository)(nil)
