package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns "ASC" when the input is empty or invalid.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BillSortFields contains allowed sort fields for bills
var BillSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"billing_date": true,
	"customer_id":  true,
}

// ProductItemSortFields contains allowed sort fields for product items
var ProductItemSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"bill_id":    true,
	"product_id": true,
	"price":      true,
	"quantity":   true,
}
