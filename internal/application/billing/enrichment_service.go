package billing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/domain/shared"
	"github.com/sid/billing-service/internal/infrastructure/logger"
	"github.com/sid/billing-service/internal/infrastructure/telemetry"
)

// defaultMaxConcurrentLookups bounds product lookups per enriched read
const defaultMaxConcurrentLookups = 8

// EnrichmentService joins stored bills with the customer directory and the
// inventory catalog. Remote data is fetched on every call and never stored.
type EnrichmentService struct {
	billRepo      billing.BillRepository
	customers     billing.CustomerDirectory
	products      billing.ProductCatalog
	maxConcurrent int
	logger        *zap.Logger
	metrics       *telemetry.BillingMetrics
}

// EnrichmentOption configures an EnrichmentService
type EnrichmentOption func(*EnrichmentService)

// WithMaxConcurrentLookups bounds the number of in-flight product lookups
func WithMaxConcurrentLookups(n int) EnrichmentOption {
	return func(s *EnrichmentService) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithEnrichmentLogger sets the service logger
func WithEnrichmentLogger(l *zap.Logger) EnrichmentOption {
	return func(s *EnrichmentService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEnrichmentMetrics records enrichment outcomes on m
func WithEnrichmentMetrics(m *telemetry.BillingMetrics) EnrichmentOption {
	return func(s *EnrichmentService) {
		s.metrics = m
	}
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(
	billRepo billing.BillRepository,
	customers billing.CustomerDirectory,
	products billing.ProductCatalog,
	opts ...EnrichmentOption,
) *EnrichmentService {
	s := &EnrichmentService{
		billRepo:      billRepo,
		customers:     customers,
		products:      products,
		maxConcurrent: defaultMaxConcurrentLookups,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetEnrichedBill loads a bill with its items and resolves its customer and
// every item's product. Any failure aborts the whole read.
func (s *EnrichmentService) GetEnrichedBill(ctx context.Context, id int64) (*billing.EnrichedBill, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "get_enriched_bill", telemetry.SpanAttrBillID, id)
	defer span.End()

	enriched, err := s.enrich(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordEnrichment(ctx, enrichmentOutcome(err))
		if !errors.Is(err, shared.ErrNotFound) {
			logger.WithLogger(ctx, s.logger).Warn("Bill enrichment failed",
				zap.Int64("bill_id", id),
				zap.Error(err),
			)
		}
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, enriched.Customer.ID,
		telemetry.SpanAttrItemCount, len(enriched.ProductItems),
	)
	s.metrics.RecordEnrichment(ctx, telemetry.OutcomeSuccess)
	return enriched, nil
}

func (s *EnrichmentService) enrich(ctx context.Context, id int64) (*billing.EnrichedBill, error) {
	bill, err := s.billRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.FindCustomerByID(ctx, bill.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", bill.CustomerID, err)
	}

	products := make([]billing.Product, len(bill.ProductItems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i := range bill.ProductItems {
		productID := bill.ProductItems[i].ProductID
		g.Go(func() error {
			product, err := s.products.FindProductByID(gctx, productID)
			if err != nil {
				return fmt.Errorf("product %d: %w", productID, err)
			}
			products[i] = *product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return billing.NewEnrichedBill(bill, *customer, products), nil
}

func enrichmentOutcome(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, billing.ErrRemoteNotFound):
		return telemetry.OutcomeNotFound
	case errors.Is(err, billing.ErrRemoteTimeout):
		return telemetry.OutcomeTimeout
	default:
		return telemetry.OutcomeUnavailable
	}
}
