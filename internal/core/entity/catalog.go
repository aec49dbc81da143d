package entity

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// Catalog is the base type for reference data entities
// (Warehouse, Location, Item, Category).
type Catalog struct {
	BaseCatalog

	// Code is a unique identifier within tenant + catalog type
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(tenantID id.ID, code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(tenantID),
		Code:        code,
		Name:        name,
	}
}

// Validate implements the Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if id.IsNil(c.TenantID) {
		return apperror.NewValidation("tenant is required").
			WithDetail("field", "tenantId")
	}

	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	return nil
}
