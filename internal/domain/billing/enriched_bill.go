package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnrichedBill is a Bill composed with its resolved customer and products.
// It only lives for the duration of one read and is never persisted.
type EnrichedBill struct {
	ID           int64
	BillingDate  time.Time
	Customer     Customer
	ProductItems []EnrichedProductItem
}

// EnrichedProductItem is a ProductItem composed with its resolved product.
// Price and Quantity are the stored snapshot, not the catalog price.
type EnrichedProductItem struct {
	ID       int64
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Product  Product
}

// NewEnrichedBill composes a bill with its customer and one product per item.
// products must be index-aligned with bill.ProductItems.
func NewEnrichedBill(bill *Bill, customer Customer, products []Product) *EnrichedBill {
	items := make([]EnrichedProductItem, len(bill.ProductItems))
	for i, item := range bill.ProductItems {
		items[i] = EnrichedProductItem{
			ID:       item.ID,
			Price:    item.Price,
			Quantity: item.Quantity,
			Product:  products[i],
		}
	}
	return &EnrichedBill{
		ID:           bill.ID,
		BillingDate:  bill.BillingDate,
		Customer:     customer,
		ProductItems: items,
	}
}
