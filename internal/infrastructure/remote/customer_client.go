package remote

import (
	"context"
	"strconv"

	"github.com/sid/billing-service/internal/domain/billing"
)

// CustomerService is the service name reported in logs and metrics
const CustomerService = "customer-service"

// CustomerClient reads customers from the customer directory.
// It implements billing.CustomerDirectory.
type CustomerClient struct {
	*client
}

// NewCustomerClient creates a client for the customer directory at cfg.BaseURL
func NewCustomerClient(cfg Config, opts ...Option) (*CustomerClient, error) {
	c, err := newClient(CustomerService, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &CustomerClient{client: c}, nil
}

// FindCustomerByID fetches GET /customers/{id}
func (c *CustomerClient) FindCustomerByID(ctx context.Context, id int64) (*billing.Customer, error) {
	var resource customerResource
	if err := c.getJSON(ctx, "/customers/"+strconv.FormatInt(id, 10), &resource); err != nil {
		return nil, err
	}
	customer := resource.toDomain()
	if customer.ID == 0 {
		customer.ID = id
	}
	return customer, nil
}

var _ billing.CustomerDirectory = (*CustomerClient)(nil)
