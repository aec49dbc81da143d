// Package ledger provides read access to stock state and the
// movement journal. All writes go through the posting engine.
package ledger

import (
	"context"
	"time"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Repository defines query operations over ledger cells and the
// movement journal.
type Repository interface {
	// Cell queries

	// GetCell returns the current state of one cell.
	GetCell(ctx context.Context, warehouseID, locationID, itemID id.ID) (entity.LedgerCell, error)

	// ListByWarehouse returns cells of a warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID, filter CellFilter) ([]entity.LedgerCell, error)

	// ListByItem returns cells holding an item across warehouses.
	ListByItem(ctx context.Context, itemID id.ID) ([]entity.LedgerCell, error)

	// Journal queries

	// GetHistory returns journal records matching the filter,
	// newest first.
	GetHistory(ctx context.Context, filter HistoryFilter) ([]entity.MovementRecord, error)

	// GetByDocument returns the journal records a document produced.
	GetByDocument(ctx context.Context, documentID id.ID) ([]entity.MovementRecord, error)

	// Reporting

	// GetLowStock returns cells with quantity at or below the threshold.
	GetLowStock(ctx context.Context, warehouseID *id.ID, threshold types.Quantity) ([]entity.LedgerCell, error)

	// GetTurnover calculates receipt and expense totals for a period.
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)
}

// CellFilter narrows cell queries.
type CellFilter struct {
	LocationID *id.ID
	ItemIDs    []id.ID
}

// HistoryFilter narrows journal queries.
type HistoryFilter struct {
	WarehouseID *id.ID
	LocationID  *id.ID
	ItemID      *id.ID
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	WarehouseID *id.ID
	ItemID      *id.ID
	FromDate    time.Time
	ToDate      time.Time
}

// Turnover represents receipt/expense totals for a period.
type Turnover struct {
	WarehouseID    id.ID          `json:"warehouseId,omitempty"`
	ItemID         id.ID          `json:"itemId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}
