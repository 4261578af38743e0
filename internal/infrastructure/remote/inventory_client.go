package remote

import (
	"context"
	"strconv"

	"github.com/sid/billing-service/internal/domain/billing"
)

// InventoryService is the service name reported in logs and metrics
const InventoryService = "inventory-service"

// InventoryClient reads products from the inventory catalog.
// It implements billing.ProductCatalog.
type InventoryClient struct {
	*client
}

// NewInventoryClient creates a client for the inventory catalog at cfg.BaseURL
func NewInventoryClient(cfg Config, opts ...Option) (*InventoryClient, error) {
	c, err := newClient(InventoryService, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &InventoryClient{client: c}, nil
}

// FindProductByID fetches GET /products/{id}
func (c *InventoryClient) FindProductByID(ctx context.Context, id int64) (*billing.Product, error) {
	var resource productResource
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(id, 10), &resource); err != nil {
		return nil, err
	}
	product := resource.toDomain()
	if product.ID == 0 {
		product.ID = id
	}
	return &product, nil
}

// ListProducts fetches GET /products.
// The catalog's pagination metadata is returned untouched.
func (c *InventoryClient) ListProducts(ctx context.Context) (*billing.ProductPage, error) {
	var body productListBody
	if err := c.getJSON(ctx, "/products", &body); err != nil {
		return nil, err
	}
	return body.toDomain(), nil
}

var _ billing.ProductCatalog = (*InventoryClient)(nil)
