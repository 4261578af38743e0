package billing

import (
	"context"

	"github.com/sid/billing-service/internal/domain/billing"
)

// ProductItemService handles product item CRUD operations
type ProductItemService struct {
	itemRepo billing.ProductItemRepository
	billRepo billing.BillRepository
}

// NewProductItemService creates a new ProductItemService
func NewProductItemService(itemRepo billing.ProductItemRepository, billRepo billing.BillRepository) *ProductItemService {
	return &ProductItemService{
		itemRepo: itemRepo,
		billRepo: billRepo,
	}
}

// Create adds an item to an existing bill
func (s *ProductItemService) Create(ctx context.Context, req CreateProductItemRequest) (*ProductItemResponse, error) {
	if _, err := s.billRepo.FindByID(ctx, req.BillID); err != nil {
		return nil, err
	}

	item, err := billing.NewProductItem(req.BillID, req.ProductID, req.Price, req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	response := ToProductItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ProductItemService) GetByID(ctx context.Context, id int64) (*ProductItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductItemResponse(item)
	return &response, nil
}

// List retrieves items with filtering and pagination
func (s *ProductItemService) List(ctx context.Context, filter ProductItemListFilter) ([]ProductItemResponse, int64, error) {
	domainFilter := newFilter(filter.Page, filter.Size, filter.Sort, productItemSortColumns)
	if filter.BillID > 0 {
		domainFilter.Filters["bill_id"] = filter.BillID
	}
	if filter.ProductID > 0 {
		domainFilter.Filters["product_id"] = filter.ProductID
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductItemResponses(items), total, nil
}

// Update replaces every field of an item. Moving an item to another bill
// requires that bill to exist.
func (s *ProductItemService) Update(ctx context.Context, id int64, req UpdateProductItemRequest) (*ProductItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BillID != item.BillID {
		if _, err := s.billRepo.FindByID(ctx, req.BillID); err != nil {
			return nil, err
		}
	}

	if err := item.Replace(req.BillID, req.ProductID, req.Price, req.Quantity); err != nil {
		return nil, err
	}
	item.Version = req.Version

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	response := ToProductItemResponse(item)
	return &response, nil
}

// Delete removes an item
func (s *ProductItemService) Delete(ctx context.Context, id int64) error {
	return s.itemRepo.Delete(ctx, id)
}
