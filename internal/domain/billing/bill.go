package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sid/billing-service/internal/domain/shared"
)

// Bill is a billing record for one customer of the customer directory.
// CustomerID is a remote reference; no local referential integrity applies.
type Bill struct {
	shared.BaseAggregateRoot
	BillingDate  time.Time
	CustomerID   int64
	ProductItems []ProductItem
}

// NewBill creates a new bill for the given customer.
// A zero billingDate is replaced by the current time.
func NewBill(customerID int64, billingDate time.Time) (*Bill, error) {
	if customerID <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID must be positive")
	}
	if billingDate.IsZero() {
		billingDate = time.Now()
	}

	return &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillingDate:       billingDate,
		CustomerID:        customerID,
		ProductItems:      make([]ProductItem, 0),
	}, nil
}

// Replace overwrites the mutable fields of the bill.
// Items are managed through their own store and are not touched here.
func (b *Bill) Replace(customerID int64, billingDate time.Time) error {
	if customerID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Customer ID must be positive")
	}
	if billingDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Billing date is required")
	}
	b.CustomerID = customerID
	b.BillingDate = billingDate
	b.UpdatedAt = time.Now()
	return nil
}

// AddItem appends a new item for the given product to the bill.
// The item is linked to the bill once the bill has an ID.
func (b *Bill) AddItem(productID int64, price, quantity decimal.Decimal) (*ProductItem, error) {
	item, err := NewProductItem(b.ID, productID, price, quantity)
	if err != nil {
		return nil, err
	}
	b.ProductItems = append(b.ProductItems, *item)
	return &b.ProductItems[len(b.ProductItems)-1], nil
}

// Total returns the sum of price * quantity over the loaded items
func (b *Bill) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.ProductItems {
		total = total.Add(item.Amount())
	}
	return total
}
