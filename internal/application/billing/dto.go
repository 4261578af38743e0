package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sid/billing-service/internal/domain/billing"
)

// Prices and quantities are written as JSON numbers. Decoding still accepts
// both quoted and bare values.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// Bill DTOs
// =============================================================================

// CreateBillRequest represents a request to create a bill.
// BillingDate defaults to the creation time.
type CreateBillRequest struct {
	BillingDate  *time.Time              `json:"billingDate"`
	CustomerID   int64                   `json:"customerId" binding:"required,gt=0"`
	ProductItems []CreateBillItemRequest `json:"productItems" binding:"omitempty,max=500,dive"`
}

// CreateBillItemRequest is an item created together with its bill
type CreateBillItemRequest struct {
	ProductID int64           `json:"productId" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// UpdateBillRequest replaces a bill. Version must match the stored version.
type UpdateBillRequest struct {
	BillingDate time.Time `json:"billingDate" binding:"required"`
	CustomerID  int64     `json:"customerId" binding:"required,gt=0"`
	Version     int       `json:"version" binding:"required,gt=0"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID           int64                 `json:"id"`
	BillingDate  time.Time             `json:"billingDate"`
	CustomerID   int64                 `json:"customerId"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	ProductItems []ProductItemResponse `json:"productItems,omitempty"`
}

// FullBillProjection is the "fullBill" view of a stored bill.
// It carries the customer and product references, never remote data.
type FullBillProjection struct {
	ID           int64                 `json:"id"`
	BillingDate  time.Time             `json:"billingDate"`
	CustomerID   int64                 `json:"customerId"`
	ProductItems []ProductItemResponse `json:"productItems"`
}

// BillListFilter represents filter options for the bill list.
// Page is zero-based.
type BillListFilter struct {
	Page       int    `form:"page" binding:"omitempty,min=0"`
	Size       int    `form:"size" binding:"omitempty,min=1,max=100"`
	Sort       string `form:"sort"`
	CustomerID int64  `form:"customer_id" binding:"omitempty,gt=0"`
}

// =============================================================================
// ProductItem DTOs
// =============================================================================

// CreateProductItemRequest represents a request to add an item to an existing bill
type CreateProductItemRequest struct {
	BillID    int64           `json:"billId" binding:"required,gt=0"`
	ProductID int64           `json:"productId" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// UpdateProductItemRequest replaces an item. Version must match the stored version.
type UpdateProductItemRequest struct {
	BillID    int64           `json:"billId" binding:"required,gt=0"`
	ProductID int64           `json:"productId" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Version   int             `json:"version" binding:"required,gt=0"`
}

// ProductItemResponse represents a product item in API responses
type ProductItemResponse struct {
	ID        int64           `json:"id"`
	BillID    int64           `json:"billId"`
	ProductID int64           `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ProductItemListFilter represents filter options for the item list.
// Page is zero-based.
type ProductItemListFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=0"`
	Size      int    `form:"size" binding:"omitempty,min=1,max=100"`
	Sort      string `form:"sort"`
	BillID    int64  `form:"bill_id" binding:"omitempty,gt=0"`
	ProductID int64  `form:"product_id" binding:"omitempty,gt=0"`
}

// =============================================================================
// Enriched bill DTOs
// =============================================================================

// EnrichedBillResponse is the bill joined with its remote customer and products.
// Customer and product references are not repeated outside the nested objects.
type EnrichedBillResponse struct {
	ID           int64                         `json:"id"`
	BillingDate  time.Time                     `json:"billingDate"`
	Customer     CustomerResponse              `json:"customer"`
	ProductItems []EnrichedProductItemResponse `json:"productItems"`
}

// CustomerResponse is the remote customer view
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EnrichedProductItemResponse is an item with its remote product
type EnrichedProductItemResponse struct {
	ID       int64           `json:"id"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Product  ProductResponse `json:"product"`
}

// ProductResponse is the remote product view
type ProductResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// =============================================================================
// Mappers
// =============================================================================

// ToBillResponse converts a domain Bill to a BillResponse
func ToBillResponse(b *billing.Bill) BillResponse {
	resp := BillResponse{
		ID:          b.ID,
		BillingDate: b.BillingDate,
		CustomerID:  b.CustomerID,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if len(b.ProductItems) > 0 {
		resp.ProductItems = ToProductItemResponses(b.ProductItems)
	}
	return resp
}

// ToBillResponses converts a slice of bills
func ToBillResponses(bills []billing.Bill) []BillResponse {
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return responses
}

// ToFullBillProjection converts a bill loaded with its items
func ToFullBillProjection(b *billing.Bill) FullBillProjection {
	return FullBillProjection{
		ID:           b.ID,
		BillingDate:  b.BillingDate,
		CustomerID:   b.CustomerID,
		ProductItems: ToProductItemResponses(b.ProductItems),
	}
}

// ToProductItemResponse converts a domain ProductItem
func ToProductItemResponse(i *billing.ProductItem) ProductItemResponse {
	return ProductItemResponse{
		ID:        i.ID,
		BillID:    i.BillID,
		ProductID: i.ProductID,
		Price:     i.Price,
		Quantity:  i.Quantity,
		Version:   i.Version,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ToProductItemResponses converts a slice of items
func ToProductItemResponses(items []billing.ProductItem) []ProductItemResponse {
	responses := make([]ProductItemResponse, len(items))
	for i := range items {
		responses[i] = ToProductItemResponse(&items[i])
	}
	return responses
}

// ToEnrichedBillResponse converts an enriched bill
func ToEnrichedBillResponse(b *billing.EnrichedBill) EnrichedBillResponse {
	items := make([]EnrichedProductItemResponse, len(b.ProductItems))
	for i, item := range b.ProductItems {
		items[i] = EnrichedProductItemResponse{
			ID:       item.ID,
			Price:    item.Price,
			Quantity: item.Quantity,
			Product: ProductResponse{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Price: item.Product.Price,
			},
		}
	}
	return EnrichedBillResponse{
		ID:          b.ID,
		BillingDate: b.BillingDate,
		Customer: CustomerResponse{
			ID:    b.Customer.ID,
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
		},
		ProductItems: items,
	}
}
