package billing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockBillRepository is a mock implementation of billing.BillRepository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) FindByID(ctx context.Context, id int64) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByIDWithItems(ctx context.Context, id int64) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRepository) Update(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductItemRepository is a mock implementation of billing.ProductItemRepository
type MockProductItemRepository struct {
	mock.Mock
}

func (m *MockProductItemRepository) Create(ctx context.Context, item *billing.ProductItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockProductItemRepository) FindByID(ctx context.Context, id int64) (*billing.ProductItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) FindByBill(ctx context.Context, billID int64) ([]billing.ProductItem, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).([]billing.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.ProductItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductItemRepository) Update(ctx context.Context, item *billing.ProductItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockProductItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Mock Remote Clients
// =============================================================================

// MockCustomerDirectory is a mock implementation of billing.CustomerDirectory
type MockCustomerDirectory struct {
	mock.Mock
}

func (m *MockCustomerDirectory) FindCustomerByID(ctx context.Context, id int64) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

// MockProductCatalog is a mock implementation of billing.ProductCatalog
type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) FindProductByID(ctx context.Context, id int64) (*billing.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Product), args.Error(1)
}

func (m *MockProductCatalog) ListProducts(ctx context.Context) (*billing.ProductPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ProductPage), args.Error(1)
}
