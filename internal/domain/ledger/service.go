package ledger

import (
	"context"
	"fmt"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Service provides read operations over the stock ledger.
type Service struct {
	repo Repository
}

// NewService creates a ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCell returns the current state of one cell.
func (s *Service) GetCell(ctx context.Context, warehouseID, locationID, itemID id.ID) (entity.LedgerCell, error) {
	return s.repo.GetCell(ctx, warehouseID, locationID, itemID)
}

// GetWarehouseStock returns all cells of a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID, filter CellFilter) ([]entity.LedgerCell, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID, filter)
}

// GetItemAvailability returns total available quantity of an item
// across all warehouses.
func (s *Service) GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	cells, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return types.Zero(), fmt.Errorf("list cells: %w", err)
	}

	total := types.Zero()
	for _, c := range cells {
		total = total.Add(c.Quantity)
	}

	return total, nil
}

// GetItemStock returns per-cell stock of an item.
func (s *Service) GetItemStock(ctx context.Context, itemID id.ID) ([]entity.LedgerCell, error) {
	return s.repo.ListByItem(ctx, itemID)
}

// GetHistory returns journal records matching the filter.
func (s *Service) GetHistory(ctx context.Context, filter HistoryFilter) ([]entity.MovementRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.GetHistory(ctx, filter)
}

// GetDocumentMovements returns the journal records a document produced.
func (s *Service) GetDocumentMovements(ctx context.Context, documentID id.ID) ([]entity.MovementRecord, error) {
	return s.repo.GetByDocument(ctx, documentID)
}

// GetLowStock returns cells with quantity at or below the threshold.
func (s *Service) GetLowStock(ctx context.Context, warehouseID *id.ID, threshold types.Quantity) ([]entity.LedgerCell, error) {
	return s.repo.GetLowStock(ctx, warehouseID, threshold)
}

// GetTurnover calculates receipt and expense totals for a period.
func (s *Service) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}
