package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sid/billing-service/internal/domain/billing"
)

// BillModel is the persistence model for the Bill aggregate.
// customer_id is a remote reference, so it carries no foreign key.
type BillModel struct {
	AggregateModel
	BillingDate  time.Time          `gorm:"not null"`
	CustomerID   int64              `gorm:"not null;index"`
	ProductItems []ProductItemModel `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill.
// Items are included only when they were preloaded.
func (m *BillModel) ToDomain() *billing.Bill {
	bill := &billing.Bill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BillingDate:       m.BillingDate,
		CustomerID:        m.CustomerID,
		ProductItems:      make([]billing.ProductItem, 0, len(m.ProductItems)),
	}
	for i := range m.ProductItems {
		bill.ProductItems = append(bill.ProductItems, *m.ProductItems[i].ToDomain())
	}
	return bill
}

// FromDomain populates the persistence model from a domain Bill, without items
func (m *BillModel) FromDomain(b *billing.Bill) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BillingDate = b.BillingDate
	m.CustomerID = b.CustomerID
}

// ProductItemModel is the persistence model for ProductItem.
// product_id is a remote reference to the inventory catalog.
type ProductItemModel struct {
	AggregateModel
	BillID    int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductItemModel) TableName() string {
	return "product_items"
}

// ToDomain converts the persistence model to a domain ProductItem
func (m *ProductItemModel) ToDomain() *billing.ProductItem {
	return &billing.ProductItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BillID:            m.BillID,
		ProductID:         m.ProductID,
		Price:             m.Price,
		Quantity:          m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain ProductItem
func (m *ProductItemModel) FromDomain(i *billing.ProductItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.BillID = i.BillID
	m.ProductID = i.ProductID
	m.Price = i.Price
	m.Quantity = i.Quantity
}

// All returns every model that must be migrated, in dependency order
func All() []any {
	return []any{&BillModel{}, &ProductItemModel{}}
}
