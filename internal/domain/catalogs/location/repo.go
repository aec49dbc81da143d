package location

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	domain.CatalogRepository[*Location]

	// ListByWarehouse returns all locations of a warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error)
}
