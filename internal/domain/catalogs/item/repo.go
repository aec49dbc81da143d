package item

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetByBarcode retrieves an item by barcode.
	GetByBarcode(ctx context.Context, barcode string) (*Item, error)

	// ListByCategory returns items of a category.
	ListByCategory(ctx context.Context, categoryID id.ID) ([]*Item, error)
}
