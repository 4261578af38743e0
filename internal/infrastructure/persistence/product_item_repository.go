package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/domain/shared"
	"github.com/sid/billing-service/internal/infrastructure/persistence/models"
)

// GormProductItemRepository implements billing.ProductItemRepository using GORM
type GormProductItemRepository struct {
	db *gorm.DB
}

// NewGormProductItemRepository creates a new GormProductItemRepository
func NewGormProductItemRepository(db *gorm.DB) *GormProductItemRepository {
	return &GormProductItemRepository{db: db}
}

// Create inserts a product item and assigns its ID
func (r *GormProductItemRepository) Create(ctx context.Context, item *billing.ProductItem) error {
	model := &models.ProductItemModel{}
	model.FromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds a product item by its ID
func (r *GormProductItemRepository) FindByID(ctx context.Context, id int64) (*billing.ProductItem, error) {
	var model models.ProductItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBill returns all items of a bill ordered by ID
func (r *GormProductItemRepository) FindByBill(ctx context.Context, billID int64) ([]billing.ProductItem, error) {
	var rows []models.ProductItemModel
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainItems(rows), nil
}

// FindAll finds all product items matching the filter
func (r *GormProductItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.ProductItem, error) {
	var rows []models.ProductItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductItemModel{}), filter)
	query = applyPaging(query, filter, ProductItemSortFields)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainItems(rows), nil
}

// Count counts product items matching the filter
func (r *GormProductItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update replaces every mutable field of the item, guarded by its version
func (r *GormProductItemRepository) Update(ctx context.Context, item *billing.ProductItem) error {
	version, updatedAt, err := versionedUpdate(ctx, r.db, &models.ProductItemModel{}, item.ID, item.Version, map[string]any{
		"bill_id":    item.BillID,
		"product_id": item.ProductID,
		"price":      item.Price,
		"quantity":   item.Quantity,
	})
	if err != nil {
		return err
	}
	item.Version = version
	item.UpdatedAt = updatedAt
	return nil
}

// Delete deletes a product item
func (r *GormProductItemRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "bill_id":
			query = query.Where("bill_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}
	return query
}

func toDomainItems(rows []models.ProductItemModel) []billing.ProductItem {
	items := make([]billing.ProductItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}
