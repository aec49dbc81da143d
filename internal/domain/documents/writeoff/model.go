// Package writeoff provides the Writeoff document: stock removed from
// warehouse cells (spoilage, loss, internal use).
package writeoff

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/posting"
)

// Writeoff represents a stock writeoff document.
type Writeoff struct {
	entity.Document

	// Warehouse the stock is written off from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Reason for the writeoff (spoilage, loss, etc.)
	Reason string `db:"reason" json:"reason,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`

	// Table part: written-off items
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one written-off item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// LocationID is the source cell within the warehouse
	LocationID id.ID `db:"location_id" json:"locationId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
	Note     string         `db:"note" json:"note,omitempty"`
}

// New creates a new draft writeoff.
func New(tenantID, warehouseID id.ID) *Writeoff {
	return &Writeoff{
		Document:    entity.NewDocument(tenantID),
		WarehouseID: warehouseID,
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a line and recalculates totals.
func (w *Writeoff) AddLine(itemID, locationID id.ID, quantity types.Quantity) *Line {
	line := Line{
		LineID:     id.New(),
		LineNo:     len(w.Lines) + 1,
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   types.RoundQuantity(quantity),
	}

	w.Lines = append(w.Lines, line)
	w.RecalculateTotals()
	return &w.Lines[len(w.Lines)-1]
}

// RecalculateTotals updates document totals from lines.
func (w *Writeoff) RecalculateTotals() {
	w.TotalQuantity = types.Zero()
	for i := range w.Lines {
		w.Lines[i].Quantity = types.RoundQuantity(w.Lines[i].Quantity)
		w.TotalQuantity = w.TotalQuantity.Add(w.Lines[i].Quantity)
	}
}

// Validate implements entity.Validatable.
func (w *Writeoff) Validate(ctx context.Context) error {
	if err := w.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(w.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(w.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range w.Lines {
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
	}

	return nil
}

// --- posting.Postable implementation ---

// GetDocumentType returns the document type name.
func (w *Writeoff) GetDocumentType() string {
	return "writeoff"
}

// CanPost validates the document before posting.
func (w *Writeoff) CanPost(ctx context.Context) error {
	return w.Validate(ctx)
}

// CellOperations debits each line's source cell. The stock is valued
// at the cell's average cost, so no cost appears on the operation.
func (w *Writeoff) CellOperations(ctx context.Context) ([]posting.CellOperation, error) {
	ops := make([]posting.CellOperation, 0, len(w.Lines))

	for _, line := range w.Lines {
		ops = append(ops, posting.CellOperation{
			Kind: posting.OpDebit,
			Key: posting.CellKey{
				WarehouseID: w.WarehouseID,
				LocationID:  line.LocationID,
				ItemID:      line.ItemID,
			},
			Quantity: line.Quantity,
			Note:     line.Note,
		})
	}

	return ops, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Writeoff)(nil)
