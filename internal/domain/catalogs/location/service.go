package location

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// WarehouseChecker verifies warehouse references.
type WarehouseChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service provides business logic for the Location catalog.
type Service struct {
	*domain.CatalogService[*Location]
	repo       Repository
	warehouses WarehouseChecker
}

// NewService creates a Location service.
func NewService(repo Repository, warehouses WarehouseChecker, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Location](repo, txManager, "location")

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		warehouses:     warehouses,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkWarehouse)
	base.Hooks().On(domain.BeforeUpdate, svc.checkWarehouse)

	return svc
}

// checkWarehouse rejects locations pointing at a missing warehouse.
func (s *Service) checkWarehouse(ctx context.Context, loc *Location) error {
	if id.IsNil(loc.WarehouseID) {
		return nil // model validation reports the missing field
	}

	ok, err := s.warehouses.Exists(ctx, loc.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("warehouse not found").
			WithDetail("warehouseId", loc.WarehouseID.String())
	}

	return nil
}

// ListByWarehouse returns all locations of a warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}
