package movement

import (
	"context"
	"time"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines operations for movement documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Movement) error
	GetByID(ctx context.Context, docID id.ID) (*Movement, error)
	GetByNumber(ctx context.Context, number string) (*Movement, error)
	Update(ctx context.Context, doc *Movement) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Movement], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Movement, error)
}

// ListFilter for filtering movements.
type ListFilter struct {
	domain.ListFilter

	Type            *Type
	WarehouseFromID *id.ID
	WarehouseToID   *id.ID
	Status          *entity.DocumentStatus
	DateFrom        *time.Time
	DateTo          *time.Time
}
