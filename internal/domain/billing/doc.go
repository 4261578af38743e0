// Package billing provides the domain model of the billing service.
//
// A Bill belongs to one customer of the external customer directory and owns
// an ordered set of ProductItems. Each ProductItem references a product of the
// external inventory catalog and keeps a snapshot of price and quantity taken
// when the item was created.
//
// Key Aggregates:
//   - Bill: billing record for one customer, owning its ProductItems
//   - ProductItem: line item priced at purchase time
//
// Remote views:
//   - Customer: read-only customer record from the customer directory
//   - Product: read-only product record from the inventory catalog
//
// Remote views are never attached to the persisted aggregates. EnrichedBill
// composes a Bill with its resolved Customer and Products for a single read.
package billing
