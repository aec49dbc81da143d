package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
	"stockbook/internal/domain/documents/movement"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	movementsTable     = "doc_movements"
	movementLinesTable = "doc_movement_lines"
)

// MovementRepo implements movement.Repository.
type MovementRepo struct {
	*BaseDocumentRepo[*movement.Movement]
}

var _ movement.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			movementsTable,
			postgres.ExtractDBColumns[movement.Movement](),
			func() *movement.Movement { return &movement.Movement{} },
		),
	}
}

// NewMovementStatusStore creates the posting engine's status store for
// movements.
func NewMovementStatusStore(txManager *postgres.TxManager) *StatusStore {
	return NewStatusStore(txManager, movementsTable)
}

// GetLines retrieves lines for a movement.
func (r *MovementRepo) GetLines(ctx context.Context, docID id.ID) ([]movement.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id",
			"location_from_id", "location_to_id",
			"quantity", "note",
		).
		From(movementLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []movement.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the lines of a movement.
func (r *MovementRepo) SaveLines(ctx context.Context, docID id.ID, lines []movement.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + movementLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(movementLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id",
			"location_from_id", "location_to_id",
			"quantity", "note",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID,
			line.LocationFromID, line.LocationToID,
			line.Quantity, line.Note,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves movements with filtering.
func (r *MovementRepo) List(ctx context.Context, filter movement.ListFilter) (domain.ListResult[*movement.Movement], error) {
	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}

	if filter.WarehouseFromID != nil {
		q = q.Where(squirrel.Eq{"warehouse_from_id": *filter.WarehouseFromID})
	}

	if filter.WarehouseToID != nil {
		q = q.Where(squirrel.Eq{"warehouse_to_id": *filter.WarehouseToID})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	return r.finishList(ctx, q, filter.ListFilter)
}
