// Package receipt provides the Receipt document: incoming goods from
// a supplier into warehouse cells.
package receipt

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/posting"
)

// Receipt represents a goods receipt document.
type Receipt struct {
	entity.Document

	// Warehouse receiving the goods
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// SupplierName is free-form; suppliers are not a managed catalog
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Supplier's document reference
	SupplierDocNumber string `db:"supplier_doc_number" json:"supplierDocNumber,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Cost     `db:"total_amount" json:"totalAmount"`

	// Table part: received goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one received item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// LocationID is the destination cell within the warehouse
	LocationID id.ID `db:"location_id" json:"locationId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
	Unit     string         `db:"unit" json:"unit,omitempty"`

	// PurchasePrice values the credited stock
	PurchasePrice types.Cost `db:"purchase_price" json:"purchasePrice"`
	SellingPrice  types.Cost `db:"selling_price" json:"sellingPrice,omitempty"`

	Batch      string     `db:"batch" json:"batch,omitempty"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	Amount types.Cost `db:"amount" json:"amount"`
}

// New creates a new draft receipt.
func New(tenantID, warehouseID id.ID) *Receipt {
	return &Receipt{
		Document:    entity.NewDocument(tenantID),
		WarehouseID: warehouseID,
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a line and recalculates totals.
func (r *Receipt) AddLine(itemID, locationID id.ID, quantity types.Quantity, purchasePrice types.Cost) *Line {
	qty := types.RoundQuantity(quantity)
	price := types.RoundCost(purchasePrice)

	line := Line{
		LineID:        id.New(),
		LineNo:        len(r.Lines) + 1,
		ItemID:        itemID,
		LocationID:    locationID,
		Quantity:      qty,
		PurchasePrice: price,
		Amount:        types.RoundCost(qty.Mul(price)),
	}

	r.Lines = append(r.Lines, line)
	r.RecalculateTotals()
	return &r.Lines[len(r.Lines)-1]
}

// RecalculateTotals updates document totals from lines.
func (r *Receipt) RecalculateTotals() {
	r.TotalQuantity = types.Zero()
	r.TotalAmount = types.Zero()

	for i := range r.Lines {
		line := &r.Lines[i]
		line.Quantity = types.RoundQuantity(line.Quantity)
		line.PurchasePrice = types.RoundCost(line.PurchasePrice)
		line.Amount = types.RoundCost(line.Quantity.Mul(line.PurchasePrice))

		r.TotalQuantity = r.TotalQuantity.Add(line.Quantity)
		r.TotalAmount = r.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(r.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range r.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if id.IsNil(line.LocationID) {
			return apperror.NewValidation("location is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.PurchasePrice.IsNegative() {
			return apperror.NewValidation("purchase price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- posting.Postable implementation ---

// GetDocumentType returns the document type name.
func (r *Receipt) GetDocumentType() string {
	return "receipt"
}

// CanPost validates the document before posting.
func (r *Receipt) CanPost(ctx context.Context) error {
	return r.Validate(ctx)
}

// CellOperations credits each line's destination cell at the line's
// purchase price.
func (r *Receipt) CellOperations(ctx context.Context) ([]posting.CellOperation, error) {
	ops := make([]posting.CellOperation, 0, len(r.Lines))

	for _, line := range r.Lines {
		ops = append(ops, posting.CellOperation{
			Kind: posting.OpCredit,
			Key: posting.CellKey{
				WarehouseID: r.WarehouseID,
				LocationID:  line.LocationID,
				ItemID:      line.ItemID,
			},
			Quantity: line.Quantity,
			UnitCost: line.PurchasePrice,
			Note:     line.Batch,
		})
	}

	return ops, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Receipt)(nil)
