package entity

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// LedgerCell is the current stock state of one storage cell:
// (tenant, warehouse, location, item). Quantity is kept at 3 decimal
// places, AverageCost at 2. Cells with zero quantity are removed from
// storage rather than kept around.
type LedgerCell struct {
	TenantID       id.ID          `db:"tenant_id" json:"tenantId"`
	WarehouseID    id.ID          `db:"warehouse_id" json:"warehouseId"`
	LocationID     id.ID          `db:"location_id" json:"locationId"`
	ItemID         id.ID          `db:"item_id" json:"itemId"`
	Quantity       types.Quantity `db:"quantity" json:"quantity"`
	AverageCost    types.Cost     `db:"average_cost" json:"averageCost"`
	LastMovementAt time.Time      `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// Value returns the total value of the cell (quantity * average cost),
// rounded to cost precision.
func (c *LedgerCell) Value() types.Cost {
	return types.RoundCost(c.Quantity.Mul(c.AverageCost))
}

// MovementRecord is one row of the append-only movement journal.
// Every posted document line produces exactly one record per affected
// cell; records are never updated or deleted.
type MovementRecord struct {
	ID             id.ID          `db:"id" json:"id"`
	TenantID       id.ID          `db:"tenant_id" json:"tenantId"`
	DocumentType   string         `db:"document_type" json:"documentType"`
	DocumentID     id.ID          `db:"document_id" json:"documentId"`
	DocumentNumber string         `db:"document_number" json:"documentNumber"`
	WarehouseID    id.ID          `db:"warehouse_id" json:"warehouseId"`
	LocationID     id.ID          `db:"location_id" json:"locationId"`
	ItemID         id.ID          `db:"item_id" json:"itemId"`
	QuantityDelta  types.Quantity `db:"quantity_delta" json:"quantityDelta"`
	QuantityAfter  types.Quantity `db:"quantity_after" json:"quantityAfter"`
	UnitCost       types.Cost     `db:"unit_cost" json:"unitCost"`
	ActorID        id.ID          `db:"actor_id" json:"actorId,omitempty"`
	Note           string         `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}
