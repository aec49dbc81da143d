// Package category provides the Category catalog: a tree for
// grouping items.
package category

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
)

// Category represents an item group. Categories form a tree via
// ParentID.
type Category struct {
	entity.Catalog

	// ParentID references the parent category; nil for roots
	ParentID *id.ID `db:"parent_id" json:"parentId,omitempty"`

	Description *string `db:"description" json:"description,omitempty"`
}

// NewCategory creates a new Category.
func NewCategory(tenantID id.ID, code, name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(tenantID, code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.ParentID != nil && *c.ParentID == c.ID {
		return apperror.NewValidation("category cannot be its own parent").
			WithDetail("field", "parentId")
	}

	return nil
}
