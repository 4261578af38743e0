package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sid/billing-service/internal/domain/shared"
)

// versionedUpdate applies updates to the row with the given id only when its
// stored version equals expectedVersion, bumping the version by one.
// It returns the new version and update time.
func versionedUpdate(ctx context.Context, db *gorm.DB, model any, id int64, expectedVersion int, updates map[string]any) (int, time.Time, error) {
	now := time.Now()
	newVersion := expectedVersion + 1
	updates["version"] = newVersion
	updates["updated_at"] = now

	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return 0, time.Time{}, result.Error
	}
	if result.RowsAffected > 0 {
		return newVersion, now, nil
	}

	// Nothing matched: either the row is gone or someone else bumped the version
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return 0, time.Time{}, err
	}
	if count == 0 {
		return 0, time.Time{}, shared.ErrNotFound
	}
	return 0, time.Time{}, shared.ErrConcurrencyConflict
}

// applyPaging applies ordering and pagination from the filter
func applyPaging(query *gorm.DB, filter shared.Filter, allowedSort map[string]bool) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, allowedSort, "id")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if orderBy != "id" {
		// stable order for equal keys
		query = query.Order("id ASC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
