package billing

import (
	"strings"

	"github.com/sid/billing-service/internal/domain/shared"
)

// Page size bounds for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var billSortColumns = map[string]string{
	"id":          "id",
	"billingDate": "billing_date",
	"customerId":  "customer_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

var productItemSortColumns = map[string]string{
	"id":        "id",
	"billId":    "bill_id",
	"productId": "product_id",
	"price":     "price",
	"quantity":  "quantity",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// PageSize clamps a requested page size to [1, MaxPageSize], defaulting to DefaultPageSize
func PageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return min(size, MaxPageSize)
}

// newFilter builds a one-based store filter from a zero-based page request.
// sort has the form "field" or "field,asc|desc" using JSON field names.
func newFilter(page, size int, sort string, columns map[string]string) shared.Filter {
	if page < 0 {
		page = 0
	}
	filter := shared.DefaultFilter()
	filter.Page = page + 1
	filter.PageSize = PageSize(size)

	field, dir, _ := strings.Cut(sort, ",")
	if column, ok := columns[strings.TrimSpace(field)]; ok {
		filter.OrderBy = column
		if strings.EqualFold(strings.TrimSpace(dir), "desc") {
			filter.OrderDir = "desc"
		}
	}
	return filter
}
