// Package ledger_repo provides the PostgreSQL implementation of the
// stock ledger: current cell state plus the append-only movement
// journal. Cell writes happen only inside posting transactions.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/posting"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	cellsTable    = "stock_cells"
	journalTable  = "stock_movements"
	itemsTable    = "cat_items"
	cellsColumns  = "tenant_id, warehouse_id, location_id, item_id, quantity, average_cost, last_movement_at, updated_at"
	recordColumns = "id, tenant_id, document_type, document_id, document_number, warehouse_id, location_id, item_id, quantity_delta, quantity_after, unit_cost, actor_id, note, created_at"
)

// LedgerRepo implements posting.LedgerStore and ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	builder   squirrel.StatementBuilderType
}

var (
	_ posting.LedgerStore = (*LedgerRepo)(nil)
	_ ledger.Repository   = (*LedgerRepo)(nil)
)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// --- posting.LedgerStore ---

// EnsureCells inserts zero-quantity rows for cells that do not exist
// yet. A row must exist for FOR UPDATE to lock anything, so credited
// cells are materialized before LockCells; existing rows are left
// untouched.
func (r *LedgerRepo) EnsureCells(ctx context.Context, tenantID id.ID, keys []posting.CellKey) error {
	if len(keys) == 0 {
		return nil
	}

	now := time.Now().UTC()

	q := r.builder.Insert(cellsTable).
		Columns(
			"tenant_id", "warehouse_id", "location_id", "item_id",
			"quantity", "average_cost", "last_movement_at", "updated_at",
		).
		Suffix("ON CONFLICT (tenant_id, warehouse_id, location_id, item_id) DO NOTHING")

	for _, key := range keys {
		q = q.Values(
			tenantID, key.WarehouseID, key.LocationID, key.ItemID,
			types.Zero(), types.Zero(), now, now,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build ensure: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("ensure cells: %w", err)
	}

	return nil
}

// LockCells acquires row locks on the given cells one by one, in the
// order the caller supplies. Per-key locking keeps the acquisition
// order deterministic, which a single multi-row SELECT would not
// guarantee. Cells that do not exist yet are simply absent from the
// result.
func (r *LedgerRepo) LockCells(ctx context.Context, tenantID id.ID, keys []posting.CellKey) ([]entity.LedgerCell, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE tenant_id = $1 AND warehouse_id = $2 AND location_id = $3 AND item_id = $4
		FOR UPDATE
	`, cellsColumns, cellsTable)

	querier := r.txManager.GetQuerier(ctx)

	cells := make([]entity.LedgerCell, 0, len(keys))
	for _, key := range keys {
		var cell entity.LedgerCell
		err := pgxscan.Get(ctx, querier, &cell, sql, tenantID, key.WarehouseID, key.LocationID, key.ItemID)
		if err != nil {
			if pgxscan.NotFound(err) {
				continue
			}
			return nil, postgres.MapLockError(fmt.Errorf("lock cell %s: %w", key, err))
		}
		cells = append(cells, cell)
	}

	return cells, nil
}

// UpsertCell inserts or updates a cell row.
func (r *LedgerRepo) UpsertCell(ctx context.Context, cell *entity.LedgerCell) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, warehouse_id, location_id, item_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_cost = EXCLUDED.average_cost,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = EXCLUDED.updated_at
	`, cellsTable, cellsColumns)

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		cell.TenantID, cell.WarehouseID, cell.LocationID, cell.ItemID,
		cell.Quantity, cell.AverageCost, cell.LastMovementAt, cell.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cell: %w", err)
	}

	return nil
}

// DeleteCell removes a cell row when its quantity reaches zero.
func (r *LedgerRepo) DeleteCell(ctx context.Context, tenantID id.ID, key posting.CellKey) error {
	q := r.builder.Delete(cellsTable).
		Where(squirrel.Eq{
			"tenant_id":    tenantID,
			"warehouse_id": key.WarehouseID,
			"location_id":  key.LocationID,
			"item_id":      key.ItemID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete cell %s: %w", key, err)
	}

	return nil
}

// AppendRecords writes journal rows. Uses the COPY protocol inside
// transactions; postings always run in one, so the fallback insert is
// only for tooling.
func (r *LedgerRepo) AppendRecords(ctx context.Context, records []entity.MovementRecord) error {
	if len(records) == 0 {
		return nil
	}

	columns := []string{
		"id", "tenant_id", "document_type", "document_id", "document_number",
		"warehouse_id", "location_id", "item_id",
		"quantity_delta", "quantity_after", "unit_cost",
		"actor_id", "note", "created_at",
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		rows := make([][]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []any{
				rec.ID, rec.TenantID, rec.DocumentType, rec.DocumentID, rec.DocumentNumber,
				rec.WarehouseID, rec.LocationID, rec.ItemID,
				rec.QuantityDelta, rec.QuantityAfter, rec.UnitCost,
				rec.ActorID, rec.Note, rec.CreatedAt,
			})
		}
		if _, err := r.inserter.CopyFromSlice(ctx, journalTable, columns, rows); err != nil {
			return fmt.Errorf("copy journal records: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(journalTable).Columns(columns...)
	for _, rec := range records {
		q = q.Values(
			rec.ID, rec.TenantID, rec.DocumentType, rec.DocumentID, rec.DocumentNumber,
			rec.WarehouseID, rec.LocationID, rec.ItemID,
			rec.QuantityDelta, rec.QuantityAfter, rec.UnitCost,
			rec.ActorID, rec.Note, rec.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert journal records: %w", err)
	}

	return nil
}

// --- ledger.Repository ---

func (r *LedgerRepo) baseCellSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"tenant_id", "warehouse_id", "location_id", "item_id",
			"quantity", "average_cost", "last_movement_at", "updated_at",
		).
		From(cellsTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
}

func (r *LedgerRepo) baseRecordSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"id", "tenant_id", "document_type", "document_id", "document_number",
			"warehouse_id", "location_id", "item_id",
			"quantity_delta", "quantity_after", "unit_cost",
			"actor_id", "note", "created_at",
		).
		From(journalTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
}

// GetCell returns the current state of one cell. A cell that has never
// held stock (or was emptied) comes back as zero quantity.
func (r *LedgerRepo) GetCell(ctx context.Context, warehouseID, locationID, itemID id.ID) (entity.LedgerCell, error) {
	q := r.baseCellSelect(ctx).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"location_id":  locationID,
			"item_id":      itemID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return entity.LedgerCell{}, fmt.Errorf("build query: %w", err)
	}

	var cell entity.LedgerCell
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &cell, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.LedgerCell{
				TenantID:    appctx.GetTenantID(ctx),
				WarehouseID: warehouseID,
				LocationID:  locationID,
				ItemID:      itemID,
				Quantity:    types.Zero(),
				AverageCost: types.Zero(),
			}, nil
		}
		return entity.LedgerCell{}, fmt.Errorf("get cell: %w", err)
	}

	return cell, nil
}

// ListByWarehouse returns cells of a warehouse.
func (r *LedgerRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID, filter ledger.CellFilter) ([]entity.LedgerCell, error) {
	q := r.baseCellSelect(ctx).
		Where(squirrel.Eq{"warehouse_id": warehouseID})

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}

	q = q.OrderBy("location_id", "item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cells []entity.LedgerCell
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cells, sql, args...); err != nil {
		return nil, fmt.Errorf("select cells: %w", err)
	}

	return cells, nil
}

// ListByItem returns cells holding an item across warehouses.
func (r *LedgerRepo) ListByItem(ctx context.Context, itemID id.ID) ([]entity.LedgerCell, error) {
	q := r.baseCellSelect(ctx).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("warehouse_id", "location_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cells []entity.LedgerCell
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cells, sql, args...); err != nil {
		return nil, fmt.Errorf("select cells: %w", err)
	}

	return cells, nil
}

// GetHistory returns journal records matching the filter, newest first.
func (r *LedgerRepo) GetHistory(ctx context.Context, filter ledger.HistoryFilter) ([]entity.MovementRecord, error) {
	q := r.baseRecordSelect(ctx)

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.MovementRecord
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return records, nil
}

// GetByDocument returns the journal records a document produced, in
// the order they were written.
func (r *LedgerRepo) GetByDocument(ctx context.Context, documentID id.ID) ([]entity.MovementRecord, error) {
	q := r.baseRecordSelect(ctx).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.MovementRecord
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select by document: %w", err)
	}

	return records, nil
}

// GetLowStock returns cells with quantity at or below the threshold.
// Items with their own min_stock use that instead of the threshold.
func (r *LedgerRepo) GetLowStock(ctx context.Context, warehouseID *id.ID, threshold types.Quantity) ([]entity.LedgerCell, error) {
	q := r.builder.
		Select(
			"c.tenant_id", "c.warehouse_id", "c.location_id", "c.item_id",
			"c.quantity", "c.average_cost", "c.last_movement_at", "c.updated_at",
		).
		From(cellsTable + " c").
		Join(fmt.Sprintf("%s i ON i.id = c.item_id AND i.tenant_id = c.tenant_id", itemsTable)).
		Where(squirrel.Eq{"c.tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Expr("c.quantity <= GREATEST(i.min_stock, ?)", threshold))

	if warehouseID != nil {
		q = q.Where(squirrel.Eq{"c.warehouse_id": *warehouseID})
	}

	q = q.OrderBy("c.quantity", "c.item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cells []entity.LedgerCell
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cells, sql, args...); err != nil {
		return nil, fmt.Errorf("select low stock: %w", err)
	}

	return cells, nil
}

// GetTurnover calculates receipt and expense totals for a period from
// the journal. Opening balance is the signed sum of all deltas before
// the period start.
func (r *LedgerRepo) GetTurnover(ctx context.Context, filter ledger.TurnoverFilter) (ledger.Turnover, error) {
	var result ledger.Turnover

	tenantID := appctx.GetTenantID(ctx)

	args := []any{tenantID, filter.FromDate, filter.ToDate}
	conditions := "tenant_id = $1 AND created_at >= $2 AND created_at < $3"
	argIndex := 4

	if filter.WarehouseID != nil {
		conditions += fmt.Sprintf(" AND warehouse_id = $%d", argIndex)
		args = append(args, *filter.WarehouseID)
		result.WarehouseID = *filter.WarehouseID
		argIndex++
	}

	if filter.ItemID != nil {
		conditions += fmt.Sprintf(" AND item_id = $%d", argIndex)
		args = append(args, *filter.ItemID)
		result.ItemID = *filter.ItemID
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN quantity_delta > 0 THEN quantity_delta ELSE 0 END), 0) AS receipt,
			COALESCE(SUM(CASE WHEN quantity_delta < 0 THEN -quantity_delta ELSE 0 END), 0) AS expense
		FROM %s
		WHERE %s
	`, journalTable, conditions)

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&result.Receipt, &result.Expense); err != nil {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}

	openingArgs := []any{tenantID, filter.FromDate}
	openingConditions := "tenant_id = $1 AND created_at < $2"
	argIndex = 3

	if filter.WarehouseID != nil {
		openingConditions += fmt.Sprintf(" AND warehouse_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.WarehouseID)
		argIndex++
	}

	if filter.ItemID != nil {
		openingConditions += fmt.Sprintf(" AND item_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.ItemID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(SUM(quantity_delta), 0)
		FROM %s
		WHERE %s
	`, journalTable, openingConditions)

	if err := querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&result.OpeningBalance); err != nil {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}

	result.ClosingBalance = types.RoundQuantity(result.OpeningBalance.Add(result.Receipt).Sub(result.Expense))

	return result, nil
}
