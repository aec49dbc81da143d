package category

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Category](repo, txManager, "category")

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkParent)
	base.Hooks().On(domain.BeforeUpdate, svc.checkParent)

	return svc
}

// checkParent rejects references to a missing parent category.
func (s *Service) checkParent(ctx context.Context, cat *Category) error {
	if cat.ParentID == nil || id.IsNil(*cat.ParentID) {
		return nil
	}

	ok, err := s.repo.Exists(ctx, *cat.ParentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("parent category not found").
			WithDetail("parentId", cat.ParentID.String())
	}

	return nil
}

// GetChildren returns direct children; nil parentID means roots.
func (s *Service) GetChildren(ctx context.Context, parentID *id.ID) ([]*Category, error) {
	return s.repo.GetChildren(ctx, parentID)
}
