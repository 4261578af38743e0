package billing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/infrastructure/logger"
	"github.com/sid/billing-service/internal/infrastructure/telemetry"
)

// BillService handles bill CRUD operations
type BillService struct {
	billRepo billing.BillRepository
	itemRepo billing.ProductItemRepository
	logger   *zap.Logger
	metrics  *telemetry.BillingMetrics
}

// NewBillService creates a new BillService. metrics may be nil.
func NewBillService(
	billRepo billing.BillRepository,
	itemRepo billing.ProductItemRepository,
	zapLogger *zap.Logger,
	metrics *telemetry.BillingMetrics,
) *BillService {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &BillService{
		billRepo: billRepo,
		itemRepo: itemRepo,
		logger:   zapLogger,
		metrics:  metrics,
	}
}

// Create creates a bill together with any inline items
func (s *BillService) Create(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	var billingDate time.Time
	if req.BillingDate != nil {
		billingDate = *req.BillingDate
	}

	bill, err := billing.NewBill(req.CustomerID, billingDate)
	if err != nil {
		return nil, err
	}
	for _, item := range req.ProductItems {
		if _, err := bill.AddItem(item.ProductID, item.Price, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	s.metrics.RecordBillCreated(ctx)

	logger.WithLogger(ctx, s.logger).Info("Bill created",
		zap.Int64("bill_id", bill.ID),
		zap.Int64("customer_id", bill.CustomerID),
		zap.Int("item_count", len(bill.ProductItems)),
	)

	response := ToBillResponse(bill)
	return &response, nil
}

// GetByID retrieves a bill without its items
func (s *BillService) GetByID(ctx context.Context, id int64) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}

// GetFullBill retrieves the "fullBill" projection of a bill
func (s *BillService) GetFullBill(ctx context.Context, id int64) (*FullBillProjection, error) {
	bill, err := s.billRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	projection := ToFullBillProjection(bill)
	return &projection, nil
}

// List retrieves bills with filtering and pagination
func (s *BillService) List(ctx context.Context, filter BillListFilter) ([]BillResponse, int64, error) {
	domainFilter := newFilter(filter.Page, filter.Size, filter.Sort, billSortColumns)
	if filter.CustomerID > 0 {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}

	bills, err := s.billRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.billRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBillResponses(bills), total, nil
}

// ListItems returns the items of a bill ordered by item ID
func (s *BillService) ListItems(ctx context.Context, billID int64) ([]ProductItemResponse, error) {
	if _, err := s.billRepo.FindByID(ctx, billID); err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindByBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return ToProductItemResponses(items), nil
}

// Update replaces the customer and billing date of a bill
func (s *BillService) Update(ctx context.Context, id int64, req UpdateBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := bill.Replace(req.CustomerID, req.BillingDate); err != nil {
		return nil, err
	}
	bill.Version = req.Version

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Delete removes a bill and its items
func (s *BillService) Delete(ctx context.Context, id int64) error {
	if err := s.billRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Bill deleted", zap.Int64("bill_id", id))
	return nil
}
