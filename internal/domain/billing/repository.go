package billing

import (
	"context"

	"github.com/sid/billing-service/internal/domain/shared"
)

// BillRepository persists bills
type BillRepository interface {
	// Create persists a new bill and assigns its ID. Items already attached
	// to the bill are created in the same transaction.
	Create(ctx context.Context, bill *Bill) error

	// FindByID retrieves a bill without its items
	FindByID(ctx context.Context, id int64) (*Bill, error)

	// FindByIDWithItems retrieves a bill with its items ordered by item ID
	FindByIDWithItems(ctx context.Context, id int64) (*Bill, error)

	// FindAll lists bills. Supported filter keys: customer_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Bill, error)

	// Count counts bills matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Update replaces a bill guarded by its version.
	// Returns shared.ErrConcurrencyConflict when the stored version differs.
	Update(ctx context.Context, bill *Bill) error

	// Delete removes a bill together with its items
	Delete(ctx context.Context, id int64) error
}

// ProductItemRepository persists product items
type ProductItemRepository interface {
	Create(ctx context.Context, item *ProductItem) error
	FindByID(ctx context.Context, id int64) (*ProductItem, error)

	// FindByBill returns all items of a bill ordered by item ID
	FindByBill(ctx context.Context, billID int64) ([]ProductItem, error)

	// FindAll lists items. Supported filter keys: bill_id, product_id
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Update replaces an item guarded by its version
	Update(ctx context.Context, item *ProductItem) error
	Delete(ctx context.Context, id int64) error
}
