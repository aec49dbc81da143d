package dto

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents/movement"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/writeoff"
)

// --- Receipt ---

// ReceiptLineRequest is one received item.
type ReceiptLineRequest struct {
	ItemID        id.ID          `json:"itemId"`
	LocationID    id.ID          `json:"locationId"`
	Quantity      types.Quantity `json:"quantity"`
	Unit          string         `json:"unit,omitempty"`
	PurchasePrice types.Cost     `json:"purchasePrice"`
	SellingPrice  types.Cost     `json:"sellingPrice,omitempty"`
	Batch         string         `json:"batch,omitempty"`
	ExpiryDate    *time.Time     `json:"expiryDate,omitempty"`
}

// ReceiptRequest creates or updates a receipt document.
type ReceiptRequest struct {
	WarehouseID       id.ID                `json:"warehouseId"`
	Date              *time.Time           `json:"date,omitempty"`
	Note              string               `json:"note,omitempty"`
	SupplierName      string               `json:"supplierName,omitempty"`
	SupplierDocNumber string               `json:"supplierDocNumber,omitempty"`
	Lines             []ReceiptLineRequest `json:"lines"`
}

func (r *ReceiptRequest) lines() []receipt.Line {
	lines := make([]receipt.Line, 0, len(r.Lines))
	for i, l := range r.Lines {
		lines = append(lines, receipt.Line{
			LineID:        id.New(),
			LineNo:        i + 1,
			ItemID:        l.ItemID,
			LocationID:    l.LocationID,
			Quantity:      l.Quantity,
			Unit:          l.Unit,
			PurchasePrice: l.PurchasePrice,
			SellingPrice:  l.SellingPrice,
			Batch:         l.Batch,
			ExpiryDate:    l.ExpiryDate,
		})
	}
	return lines
}

// ToEntity builds a new draft receipt owned by the tenant.
func (r *ReceiptRequest) ToEntity(tenantID id.ID) *receipt.Receipt {
	doc := receipt.New(tenantID, r.WarehouseID)
	r.ApplyTo(doc)
	return doc
}

// ApplyTo copies the mutable fields onto an existing draft. Lines are
// replaced wholesale; totals are recalculated by the service.
func (r *ReceiptRequest) ApplyTo(doc *receipt.Receipt) {
	doc.WarehouseID = r.WarehouseID
	doc.Note = r.Note
	doc.SupplierName = r.SupplierName
	doc.SupplierDocNumber = r.SupplierDocNumber
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = r.lines()
}

// --- Writeoff ---

// WriteoffLineRequest is one written-off item.
type WriteoffLineRequest struct {
	ItemID     id.ID          `json:"itemId"`
	LocationID id.ID          `json:"locationId"`
	Quantity   types.Quantity `json:"quantity"`
	Note       string         `json:"note,omitempty"`
}

// WriteoffRequest creates or updates a writeoff document.
type WriteoffRequest struct {
	WarehouseID id.ID                 `json:"warehouseId"`
	Date        *time.Time            `json:"date,omitempty"`
	Note        string                `json:"note,omitempty"`
	Reason      string                `json:"reason,omitempty"`
	Lines       []WriteoffLineRequest `json:"lines"`
}

func (r *WriteoffRequest) lines() []writeoff.Line {
	lines := make([]writeoff.Line, 0, len(r.Lines))
	for i, l := range r.Lines {
		lines = append(lines, writeoff.Line{
			LineID:     id.New(),
			LineNo:     i + 1,
			ItemID:     l.ItemID,
			LocationID: l.LocationID,
			Quantity:   l.Quantity,
			Note:       l.Note,
		})
	}
	return lines
}

// ToEntity builds a new draft writeoff owned by the tenant.
func (r *WriteoffRequest) ToEntity(tenantID id.ID) *writeoff.Writeoff {
	doc := writeoff.New(tenantID, r.WarehouseID)
	r.ApplyTo(doc)
	return doc
}

// ApplyTo copies the mutable fields onto an existing draft.
func (r *WriteoffRequest) ApplyTo(doc *writeoff.Writeoff) {
	doc.WarehouseID = r.WarehouseID
	doc.Note = r.Note
	doc.Reason = r.Reason
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = r.lines()
}

// --- Movement ---

// MovementLineRequest is one moved item.
type MovementLineRequest struct {
	ItemID         id.ID          `json:"itemId"`
	LocationFromID id.ID          `json:"locationFromId"`
	LocationToID   id.ID          `json:"locationToId"`
	Quantity       types.Quantity `json:"quantity"`
	Note           string         `json:"note,omitempty"`
}

// MovementRequest creates or updates a movement document.
type MovementRequest struct {
	Type            string                `json:"type"`
	WarehouseFromID id.ID                 `json:"warehouseFromId"`
	WarehouseToID   id.ID                 `json:"warehouseToId,omitempty"`
	Date            *time.Time            `json:"date,omitempty"`
	Note            string                `json:"note,omitempty"`
	Lines           []MovementLineRequest `json:"lines"`
}

func (r *MovementRequest) lines() []movement.Line {
	lines := make([]movement.Line, 0, len(r.Lines))
	for i, l := range r.Lines {
		lines = append(lines, movement.Line{
			LineID:         id.New(),
			LineNo:         i + 1,
			ItemID:         l.ItemID,
			LocationFromID: l.LocationFromID,
			LocationToID:   l.LocationToID,
			Quantity:       l.Quantity,
			Note:           l.Note,
		})
	}
	return lines
}

// ToEntity builds a new draft movement owned by the tenant.
func (r *MovementRequest) ToEntity(tenantID id.ID) *movement.Movement {
	doc := movement.New(tenantID, movement.Type(r.Type), r.WarehouseFromID, r.WarehouseToID)
	r.ApplyTo(doc)
	return doc
}

// ApplyTo copies the mutable fields onto an existing draft.
func (r *MovementRequest) ApplyTo(doc *movement.Movement) {
	doc.Type = movement.Type(r.Type)
	doc.WarehouseFromID = r.WarehouseFromID
	doc.WarehouseToID = r.WarehouseToID
	if doc.Type == movement.TypeInternal {
		doc.WarehouseToID = r.WarehouseFromID
	}
	doc.Note = r.Note
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = r.lines()
}
