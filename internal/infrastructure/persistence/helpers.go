package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateVersioned writes every column of model, except omit, when the row
// still carries the stored version. Associations are written by the caller.
func updateVersioned(tx *gorm.DB, model any, id uuid.UUID, storedVersion int, omit ...string) error {
	omit = append([]string{"id", "created_at", clause.Associations}, omit...)
	result := tx.Model(model).
		Where("version = ?", storedVersion).
		Select("*").
		Omit(omit...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// translateError maps driver errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}

// paginate applies offset and limit for a normalized filter
func paginate(query *gorm.DB, f shared.Filter) *gorm.DB {
	return query.Offset(f.Offset()).Limit(f.PageSize)
}
