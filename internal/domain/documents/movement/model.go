// Package movement provides the Movement document: stock transferred
// between cells, within one warehouse or across warehouses.
package movement

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/posting"
)

// Type distinguishes movements within one warehouse from transfers
// between warehouses.
type Type string

const (
	// TypeInternal moves stock between cells of the same warehouse.
	TypeInternal Type = "internal"

	// TypeExternal transfers stock to a different warehouse.
	TypeExternal Type = "external"
)

// Movement represents a stock movement document.
type Movement struct {
	entity.Document

	Type Type `db:"type" json:"type"`

	// Source warehouse
	WarehouseFromID id.ID `db:"warehouse_from_id" json:"warehouseFromId"`

	// Destination warehouse. Equals WarehouseFromID for internal
	// movements.
	WarehouseToID id.ID `db:"warehouse_to_id" json:"warehouseToId"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`

	// Table part: moved items
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one moved item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// LocationFromID is the source cell in the source warehouse
	LocationFromID id.ID `db:"location_from_id" json:"locationFromId"`

	// LocationToID is the destination cell in the destination warehouse
	LocationToID id.ID `db:"location_to_id" json:"locationToId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
	Note     string         `db:"note" json:"note,omitempty"`
}

// New creates a new draft movement.
func New(tenantID id.ID, movementType Type, warehouseFromID, warehouseToID id.ID) *Movement {
	if movementType == TypeInternal {
		warehouseToID = warehouseFromID
	}
	return &Movement{
		Document:        entity.NewDocument(tenantID),
		Type:            movementType,
		WarehouseFromID: warehouseFromID,
		WarehouseToID:   warehouseToID,
		Lines:           make([]Line, 0),
	}
}

// AddLine adds a line and recalculates totals.
func (m *Movement) AddLine(itemID, locationFromID, locationToID id.ID, quantity types.Quantity) *Line {
	line := Line{
		LineID:         id.New(),
		LineNo:         len(m.Lines) + 1,
		ItemID:         itemID,
		LocationFromID: locationFromID,
		LocationToID:   locationToID,
		Quantity:       types.RoundQuantity(quantity),
	}

	m.Lines = append(m.Lines, line)
	m.RecalculateTotals()
	return &m.Lines[len(m.Lines)-1]
}

// RecalculateTotals updates document totals from lines.
func (m *Movement) RecalculateTotals() {
	m.TotalQuantity = types.Zero()
	for i := range m.Lines {
		m.Lines[i].Quantity = types.RoundQuantity(m.Lines[i].Quantity)
		m.TotalQuantity = m.TotalQuantity.Add(m.Lines[i].Quantity)
	}
}

// Validate implements entity.Validatable.
func (m *Movement) Validate(ctx context.Context) error {
	if err := m.Document.Validate(ctx); err != nil {
		return err
	}

	switch m.Type {
	case TypeInternal:
		if m.WarehouseToID != m.WarehouseFromID {
			return apperror.NewValidation("internal movement must stay within one warehouse").
				WithDetail("field", "warehouseToId")
		}
	case TypeExternal:
		if m.WarehouseToID == m.WarehouseFromID {
			return apperror.NewValidation("external movement requires a different destination warehouse").
				WithDetail("field", "warehouseToId")
		}
	default:
		return apperror.NewValidation("unknown movement type").
			WithDetail("field", "type").
			WithDetail("type", string(m.Type))
	}

	if id.IsNil(m.WarehouseFromID) {
		return apperror.NewValidation("source warehouse is required").
			WithDetail("field", "warehouseFromId")
	}
	if id.IsNil(m.WarehouseToID) {
		return apperror.NewValidation("destination warehouse is required").
			WithDetail("field", "warehouseToId")
	}

	if len(m.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range m.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if id.IsNil(line.LocationFromID) || id.IsNil(line.LocationToID) {
			return apperror.NewValidation("source and destination locations are required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if m.WarehouseFromID == m.WarehouseToID && line.LocationFromID == line.LocationToID {
			return apperror.NewValidation("source and destination cells must differ").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- posting.Postable implementation ---

// GetDocumentType returns the document type name.
func (m *Movement) GetDocumentType() string {
	return "movement"
}

// CanPost validates the document before posting.
func (m *Movement) CanPost(ctx context.Context) error {
	return m.Validate(ctx)
}

// CellOperations debits each line's source cell and credits the
// destination cell at the source's pre-debit average cost, so stock
// keeps its valuation when it changes cells.
func (m *Movement) CellOperations(ctx context.Context) ([]posting.CellOperation, error) {
	ops := make([]posting.CellOperation, 0, len(m.Lines)*2)

	for _, line := range m.Lines {
		src := posting.CellKey{
			WarehouseID: m.WarehouseFromID,
			LocationID:  line.LocationFromID,
			ItemID:      line.ItemID,
		}
		dst := posting.CellKey{
			WarehouseID: m.WarehouseToID,
			LocationID:  line.LocationToID,
			ItemID:      line.ItemID,
		}

		srcKey := src
		ops = append(ops,
			posting.CellOperation{
				Kind:     posting.OpDebit,
				Key:      src,
				Quantity: line.Quantity,
				Note:     line.Note,
			},
			posting.CellOperation{
				Kind:     posting.OpCredit,
				Key:      dst,
				Quantity: line.Quantity,
				CostFrom: &srcKey,
				Note:     line.Note,
			},
		)
	}

	return ops, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Movement)(nil)
