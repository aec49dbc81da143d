// Package item provides the Item catalog: goods tracked in stock.
package item

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Item represents a stock-keeping unit. Code doubles as the SKU.
type Item struct {
	entity.Catalog

	// CategoryID is an optional reference to the category tree
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// Barcode for scanner lookups
	Barcode string `db:"barcode" json:"barcode,omitempty"`

	// Unit of measure ("pcs", "kg", "l")
	Unit string `db:"unit" json:"unit"`

	// MinStock is the low-stock alert threshold
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	// Default prices; actual valuation lives in the ledger
	PurchasePrice types.Cost `db:"purchase_price" json:"purchasePrice"`
	SellingPrice  types.Cost `db:"selling_price" json:"sellingPrice"`

	// IsActive indicates the item can appear on new documents
	IsActive bool `db:"is_active" json:"isActive"`

	Description *string `db:"description" json:"description,omitempty"`
}

// NewItem creates a new Item with required fields.
func NewItem(tenantID id.ID, code, name, unit string) *Item {
	return &Item{
		Catalog:  entity.NewCatalog(tenantID, code, name),
		Unit:     unit,
		MinStock: types.Zero(),
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	if i.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if i.MinStock.IsNegative() {
		return apperror.NewValidation("min stock must not be negative").
			WithDetail("field", "minStock")
	}

	return nil
}
