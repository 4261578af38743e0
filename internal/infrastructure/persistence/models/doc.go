// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: common columns (ID, timestamps, version)
//   - billing.go: bills and product_items tables
package models
