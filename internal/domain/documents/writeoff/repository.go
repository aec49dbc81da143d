package writeoff

import (
	"context"
	"time"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines operations for writeoff documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Writeoff) error
	GetByID(ctx context.Context, docID id.ID) (*Writeoff, error)
	GetByNumber(ctx context.Context, number string) (*Writeoff, error)
	Update(ctx context.Context, doc *Writeoff) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Writeoff], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Writeoff, error)
}

// ListFilter for filtering writeoffs.
type ListFilter struct {
	domain.ListFilter

	WarehouseID *id.ID
	Status      *entity.DocumentStatus
	DateFrom    *time.Time
	DateTo      *time.Time
}
