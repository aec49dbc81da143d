package movement

import (
	"context"
	"fmt"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/posting"
	"stockbook/pkg/logger"
)

// Service provides business operations for movement documents.
type Service struct {
	repo      Repository
	engine    *posting.Engine
	numerator numerator.Generator
	resolver  *documents.Resolver
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Movement]
}

// NewService creates a movement service.
func NewService(
	repo Repository,
	engine *posting.Engine,
	gen numerator.Generator,
	resolver *documents.Resolver,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		numerator: gen,
		resolver:  resolver,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Movement](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Movement] {
	return s.hooks
}

func (s *Service) checkReferences(ctx context.Context, doc *Movement) error {
	if err := s.resolver.RequireWarehouse(ctx, doc.WarehouseFromID); err != nil {
		return err
	}
	if err := s.resolver.RequireWarehouse(ctx, doc.WarehouseToID); err != nil {
		return err
	}
	for _, line := range doc.Lines {
		if err := s.resolver.RequireItem(ctx, line.ItemID); err != nil {
			return err
		}
		if err := s.resolver.RequireLocation(ctx, line.LocationFromID, doc.WarehouseFromID); err != nil {
			return err
		}
		if err := s.resolver.RequireLocation(ctx, line.LocationToID, doc.WarehouseToID); err != nil {
			return err
		}
	}
	return nil
}

// Create creates a new draft movement.
func (s *Service) Create(ctx context.Context, doc *Movement) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}

	if id.IsNil(doc.TenantID) {
		doc.TenantID = appctx.GetTenantID(ctx)
	}
	doc.RecalculateTotals()

	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, doc); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.Next(ctx, doc.TenantID, DocumentType, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "movement created",
		"id", doc.ID, "number", doc.Number, "type", doc.Type)
	return nil
}

// GetByID retrieves a movement with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Movement, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a draft movement.
func (s *Service) Update(ctx context.Context, doc *Movement) error {
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, doc); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete deletes a draft movement. Posted documents cannot be deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.repo.Delete(ctx, docID)
}

// Post applies the movement to the stock ledger.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.checkReferences(ctx, doc); err != nil {
		return err
	}

	return s.engine.Post(ctx, doc)
}

// Cancel abandons a draft movement without touching the ledger.
func (s *Service) Cancel(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if err := doc.MarkCancelled(); err != nil {
			return err
		}

		return s.repo.Update(ctx, doc)
	})
}

// List retrieves movements with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Movement], error) {
	return s.repo.List(ctx, filter)
}
