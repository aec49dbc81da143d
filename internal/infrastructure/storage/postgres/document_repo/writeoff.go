package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
	"stockbook/internal/domain/documents/writeoff"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	writeoffsTable     = "doc_writeoffs"
	writeoffLinesTable = "doc_writeoff_lines"
)

// WriteoffRepo implements writeoff.Repository.
type WriteoffRepo struct {
	*BaseDocumentRepo[*writeoff.Writeoff]
}

var _ writeoff.Repository = (*WriteoffRepo)(nil)

// NewWriteoffRepo creates a new writeoff repository.
func NewWriteoffRepo(txManager *postgres.TxManager) *WriteoffRepo {
	return &WriteoffRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			writeoffsTable,
			postgres.ExtractDBColumns[writeoff.Writeoff](),
			func() *writeoff.Writeoff { return &writeoff.Writeoff{} },
		),
	}
}

// NewWriteoffStatusStore creates the posting engine's status store for
// writeoffs.
func NewWriteoffStatusStore(txManager *postgres.TxManager) *StatusStore {
	return NewStatusStore(txManager, writeoffsTable)
}

// GetLines retrieves lines for a writeoff.
func (r *WriteoffRepo) GetLines(ctx context.Context, docID id.ID) ([]writeoff.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "item_id", "location_id", "quantity", "note").
		From(writeoffLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []writeoff.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the lines of a writeoff.
func (r *WriteoffRepo) SaveLines(ctx context.Context, docID id.ID, lines []writeoff.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + writeoffLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(writeoffLinesTable).
		Columns("line_id", "document_id", "line_no", "item_id", "location_id", "quantity", "note")

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID, line.LocationID,
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

// List retrieves writeoffs with filtering.
func (r *WriteoffRepo) List(ctx context.Context, filter writeoff.ListFilter) (domain.ListResult[*writeoff.Writeoff], error) {
	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
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
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"reason": pattern},
		})
	}

	return r.finishList(ctx, q, filter.ListFilter)
}
