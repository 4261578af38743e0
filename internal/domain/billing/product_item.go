package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sid/billing-service/internal/domain/shared"
)

// ProductItem is a line item of a Bill. Price and Quantity are captured when
// the item is created and are independent of later catalog price changes.
type ProductItem struct {
	shared.BaseAggregateRoot
	BillID    int64
	ProductID int64
	Price     decimal.Decimal
	Quantity  decimal.Decimal
}

// NewProductItem creates a new product item with validation.
// billID may be zero while the owning bill is not persisted yet.
func NewProductItem(billID, productID int64, price, quantity decimal.Decimal) (*ProductItem, error) {
	if err := validateItem(productID, price, quantity); err != nil {
		return nil, err
	}
	if billID < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bill ID cannot be negative")
	}

	return &ProductItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillID:            billID,
		ProductID:         productID,
		Price:             price,
		Quantity:          quantity,
	}, nil
}

// Replace overwrites every mutable field of the item
func (i *ProductItem) Replace(billID, productID int64, price, quantity decimal.Decimal) error {
	if billID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Bill ID must be positive")
	}
	if err := validateItem(productID, price, quantity); err != nil {
		return err
	}
	i.BillID = billID
	i.ProductID = productID
	i.Price = price
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Amount returns price * quantity
func (i *ProductItem) Amount() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

func validateItem(productID int64, price, quantity decimal.Decimal) error {
	if productID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Product ID must be positive")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	return nil
}
