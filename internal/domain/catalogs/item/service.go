package item

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// CategoryChecker verifies category references.
type CategoryChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service provides business logic for the Item catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo       Repository
	categories CategoryChecker
}

// NewService creates an Item service.
func NewService(repo Repository, categories CategoryChecker, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Item](repo, txManager, "item")

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkCategory)
	base.Hooks().On(domain.BeforeUpdate, svc.checkCategory)

	return svc
}

// checkCategory rejects items pointing at a missing category.
func (s *Service) checkCategory(ctx context.Context, it *Item) error {
	if it.CategoryID == nil || id.IsNil(*it.CategoryID) {
		return nil
	}

	ok, err := s.categories.Exists(ctx, *it.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("category not found").
			WithDetail("categoryId", it.CategoryID.String())
	}

	return nil
}

// GetByBarcode retrieves an item by barcode.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Item, error) {
	it, err := s.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", barcode)
		}
		return nil, err
	}
	return it, nil
}

// ListByCategory returns items of a category.
func (s *Service) ListByCategory(ctx context.Context, categoryID id.ID) ([]*Item, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}
