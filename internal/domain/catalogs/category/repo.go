package category

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]

	// GetChildren returns direct children; nil parentID means roots.
	GetChildren(ctx context.Context, parentID *id.ID) ([]*Category, error)
}
