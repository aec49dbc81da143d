// Package location provides the Location catalog: storage cells
// within a warehouse (rack, shelf, floor area).
package location

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
)

// Location represents a storage cell inside a warehouse. Stock is
// always held in a concrete location, never in a warehouse at large.
type Location struct {
	entity.Catalog

	// WarehouseID is the owning warehouse; a location never moves
	// between warehouses
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// IsActive indicates if the location accepts stock
	IsActive bool `db:"is_active" json:"isActive"`

	Description *string `db:"description" json:"description,omitempty"`
}

// NewLocation creates a new Location with required fields.
func NewLocation(tenantID, warehouseID id.ID, code, name string) *Location {
	return &Location{
		Catalog:     entity.NewCatalog(tenantID, code, name),
		WarehouseID: warehouseID,
		IsActive:    true,
	}
}

// Validate implements entity.Validatable interface.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(l.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if l.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	return nil
}
