package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sid/billing-service/internal/domain/billing"
)

// SeedConfig configures the startup seeder
type SeedConfig struct {
	CustomerIDs []int64
	Quantity    decimal.Decimal
}

// Seeder creates one demo bill at startup from the remote customer directory
// and inventory catalog.
type Seeder struct {
	billRepo  billing.BillRepository
	customers billing.CustomerDirectory
	products  billing.ProductCatalog
	config    SeedConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewSeeder creates a new Seeder
func NewSeeder(
	billRepo billing.BillRepository,
	customers billing.CustomerDirectory,
	products billing.ProductCatalog,
	cfg SeedConfig,
	zapLogger *zap.Logger,
) *Seeder {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Seeder{
		billRepo:  billRepo,
		customers: customers,
		products:  products,
		config:    cfg,
		logger:    zapLogger.Named("seeder"),
		now:       time.Now,
	}
}

// Run looks up the configured customers, then bills the first one for every
// catalog product at the configured quantity and the product's current price.
func (s *Seeder) Run(ctx context.Context) (*billing.Bill, error) {
	if len(s.config.CustomerIDs) == 0 {
		return nil, errors.New("seeder: no customer ids configured")
	}

	for _, id := range s.config.CustomerIDs {
		customer, err := s.customers.FindCustomerByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("seeder: customer %d: %w", id, err)
		}
		s.logger.Info("Seed customer",
			zap.Int64("customer_id", customer.ID),
			zap.String("name", customer.Name),
			zap.String("email", customer.Email),
		)
	}

	bill, err := billing.NewBill(s.config.CustomerIDs[0], s.now())
	if err != nil {
		return nil, err
	}

	page, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("seeder: list products: %w", err)
	}
	for _, product := range page.Products {
		if _, err := bill.AddItem(product.ID, product.Price, s.config.Quantity); err != nil {
			return nil, fmt.Errorf("seeder: product %d: %w", product.ID, err)
		}
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("seeder: create bill: %w", err)
	}

	s.logger.Info("Seed bill created",
		zap.Int64("bill_id", bill.ID),
		zap.Int64("customer_id", bill.CustomerID),
		zap.Int("item_count", len(bill.ProductItems)),
	)
	return bill, nil
}
