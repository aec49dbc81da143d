package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/documents"
	"stockbook/internal/infrastructure/storage/postgres"
)

// ReferenceRepo implements documents.ReferenceChecker with direct
// existence queries. Soft-deleted catalog entries count as missing so
// documents cannot reference them.
type ReferenceRepo struct {
	txManager *postgres.TxManager
}

var _ documents.ReferenceChecker = (*ReferenceRepo)(nil)

// NewReferenceRepo creates a new reference checker.
func NewReferenceRepo(txManager *postgres.TxManager) *ReferenceRepo {
	return &ReferenceRepo{txManager: txManager}
}

// WarehouseExists reports whether the warehouse exists in the tenant.
func (r *ReferenceRepo) WarehouseExists(ctx context.Context, warehouseID id.ID) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT 1 FROM %s
		WHERE tenant_id = $1 AND id = $2 AND deletion_mark = false
		LIMIT 1
	`, warehousesTable)

	return r.exists(ctx, sql, appctx.GetTenantID(ctx), warehouseID)
}

// ItemExists reports whether the item exists in the tenant.
func (r *ReferenceRepo) ItemExists(ctx context.Context, itemID id.ID) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT 1 FROM %s
		WHERE tenant_id = $1 AND id = $2 AND deletion_mark = false
		LIMIT 1
	`, itemsTable)

	return r.exists(ctx, sql, appctx.GetTenantID(ctx), itemID)
}

// LocationInWarehouse reports whether the location exists and belongs
// to the given warehouse.
func (r *ReferenceRepo) LocationInWarehouse(ctx context.Context, locationID, warehouseID id.ID) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT 1 FROM %s
		WHERE tenant_id = $1 AND id = $2 AND warehouse_id = $3 AND deletion_mark = false
		LIMIT 1
	`, locationsTable)

	return r.exists(ctx, sql, appctx.GetTenantID(ctx), locationID, warehouseID)
}

func (r *ReferenceRepo) exists(ctx context.Context, sql string, args ...any) (bool, error) {
	var one int
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reference check: %w", err)
	}
	return true, nil
}
