package warehouse

import (
	"context"

	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a Warehouse service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Warehouse](repo, txManager, "warehouse")

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareDefault)
	base.Hooks().On(domain.BeforeUpdate, svc.prepareDefault)

	return svc
}

// prepareDefault keeps at most one default warehouse per tenant.
func (s *Service) prepareDefault(ctx context.Context, wh *Warehouse) error {
	if wh.IsDefault {
		return s.repo.ClearDefault(ctx)
	}
	return nil
}
