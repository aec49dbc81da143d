// Package documents provides shared logic for business documents.
package documents

import (
	"context"
	"fmt"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// ReferenceChecker verifies catalog references used in document lines.
// Implemented by the storage layer; services call it before posting so
// a document can never reference a foreign or deleted catalog entry.
type ReferenceChecker interface {
	WarehouseExists(ctx context.Context, warehouseID id.ID) (bool, error)
	ItemExists(ctx context.Context, itemID id.ID) (bool, error)

	// LocationInWarehouse reports whether the location exists and
	// belongs to the given warehouse.
	LocationInWarehouse(ctx context.Context, locationID, warehouseID id.ID) (bool, error)
}

// Resolver wraps a ReferenceChecker with error-producing helpers.
type Resolver struct {
	refs ReferenceChecker
}

// NewResolver creates a Resolver.
func NewResolver(refs ReferenceChecker) *Resolver {
	return &Resolver{refs: refs}
}

// RequireWarehouse fails with a validation error if the warehouse
// does not exist in the current tenant.
func (r *Resolver) RequireWarehouse(ctx context.Context, warehouseID id.ID) error {
	if id.IsNil(warehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	ok, err := r.refs.WarehouseExists(ctx, warehouseID)
	if err != nil {
		return fmt.Errorf("check warehouse: %w", err)
	}
	if !ok {
		return apperror.NewValidation("warehouse not found").
			WithDetail("warehouseId", warehouseID.String())
	}

	return nil
}

// RequireItem fails with a validation error if the item does not
// exist in the current tenant.
func (r *Resolver) RequireItem(ctx context.Context, itemID id.ID) error {
	ok, err := r.refs.ItemExists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if !ok {
		return apperror.NewValidation("item not found").
			WithDetail("itemId", itemID.String())
	}

	return nil
}

// RequireLocation fails with a validation error if the location does
// not exist or belongs to a different warehouse.
func (r *Resolver) RequireLocation(ctx context.Context, locationID, warehouseID id.ID) error {
	if id.IsNil(locationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}

	ok, err := r.refs.LocationInWarehouse(ctx, locationID, warehouseID)
	if err != nil {
		return fmt.Errorf("check location: %w", err)
	}
	if !ok {
		return apperror.NewValidation("location not found in warehouse").
			WithDetail("locationId", locationID.String()).
			WithDetail("warehouseId", warehouseID.String())
	}

	return nil
}
