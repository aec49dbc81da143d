package receipt

import (
	"context"
	"time"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines operations for receipt documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Receipt) error
	GetByID(ctx context.Context, docID id.ID) (*Receipt, error)
	GetByNumber(ctx context.Context, number string) (*Receipt, error)
	Update(ctx context.Context, doc *Receipt) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Receipt, error)
}

// ListFilter for filtering receipts.
type ListFilter struct {
	domain.ListFilter

	WarehouseID *id.ID
	Status      *entity.DocumentStatus
	DateFrom    *time.Time
	DateTo      *time.Time
}
