package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Customer is the read-only view of a customer owned by the customer directory
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is the read-only view of a product owned by the inventory catalog
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PageMetadata is the pagination block reported by the inventory catalog.
// It is passed through as-is.
type PageMetadata struct {
	Size          int64 `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
	Number        int64 `json:"number"`
}

// ProductPage is one page of the inventory catalog
type ProductPage struct {
	Products []Product
	Page     *PageMetadata
	Links    map[string]string
}

// CustomerDirectory looks up customers in the remote customer directory.
// Implementations fail with ErrRemoteNotFound or ErrRemoteUnavailable.
type CustomerDirectory interface {
	FindCustomerByID(ctx context.Context, id int64) (*Customer, error)
}

// ProductCatalog looks up products in the remote inventory catalog.
// Implementations fail with ErrRemoteNotFound or ErrRemoteUnavailable.
type ProductCatalog interface {
	FindProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) (*ProductPage, error)
}
