package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/domain/shared"
	"github.com/sid/billing-service/internal/infrastructure/persistence/models"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Create inserts the bill and any items already attached to it in one transaction
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	model := &models.BillModel{}
	model.FromDomain(bill)
	itemModels := make([]models.ProductItemModel, len(bill.ProductItems))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		for i := range bill.ProductItems {
			itemModels[i].FromDomain(&bill.ProductItems[i])
			itemModels[i].BillID = model.ID
			if err := tx.Create(&itemModels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	bill.ID = model.ID
	bill.CreatedAt = model.CreatedAt
	bill.UpdatedAt = model.UpdatedAt
	for i := range bill.ProductItems {
		bill.ProductItems[i] = *itemModels[i].ToDomain()
	}
	return nil
}

// FindByID finds a bill by its ID without loading items
func (r *GormBillRepository) FindByID(ctx context.Context, id int64) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDWithItems finds a bill by its ID with items ordered by item ID
func (r *GormBillRepository) FindByIDWithItems(ctx context.Context, id int64) (*billing.Bill, error) {
	var model models.BillModel
	err := r.db.WithContext(ctx).
		Preload("ProductItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all bills matching the filter
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, error) {
	var rows []models.BillModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)
	query = applyPaging(query, filter, BillSortFields)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, nil
}

// Count counts bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update replaces customer and billing date, guarded by the bill's version
func (r *GormBillRepository) Update(ctx context.Context, bill *billing.Bill) error {
	version, updatedAt, err := versionedUpdate(ctx, r.db, &models.BillModel{}, bill.ID, bill.Version, map[string]any{
		"billing_date": bill.BillingDate,
		"customer_id":  bill.CustomerID,
	})
	if err != nil {
		return err
	}
	bill.Version = version
	bill.UpdatedAt = updatedAt
	return nil
}

// Delete removes a bill and its items
func (r *GormBillRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", id).Delete(&models.ProductItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BillModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}
