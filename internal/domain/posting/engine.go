package posting

import (
	"context"
	"errors"
	"sort"
	"time"

	"stockbook/internal/core/apperror"
	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/pkg/logger"
)

// Engine posts documents into the stock ledger.
type Engine struct {
	txManager tx.Manager
	ledger    LedgerStore
	documents DocumentStore
}

// NewEngine creates a posting engine.
func NewEngine(txManager tx.Manager, ledger LedgerStore, documents DocumentStore) *Engine {
	return &Engine{
		txManager: txManager,
		ledger:    ledger,
		documents: documents,
	}
}

// Post applies a document's stock effects atomically.
//
// Inside one transaction it locks the document status row, locks the
// affected cells in sorted order, applies all debits, then all
// credits, persists the changed cells, appends journal records and
// transitions the document to posted. Any failure rolls the whole
// unit back and the document stays a draft.
func (e *Engine) Post(ctx context.Context, doc Postable) error {
	if err := doc.CanPost(ctx); err != nil {
		return err
	}

	ops, err := doc.CellOperations(ctx)
	if err != nil {
		return err
	}
	if err := validateOperations(ops); err != nil {
		return err
	}

	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		status, version, err := e.documents.LockStatus(ctx, doc.GetTenantID(), doc.GetID())
		if err != nil {
			return err
		}
		switch status {
		case entity.StatusDraft:
			// proceed
		case entity.StatusPosted:
			return apperror.NewAlreadyPosted(doc.GetID().String())
		default:
			return apperror.NewInvalidState(doc.GetID().String(), string(status))
		}

		// The operations were derived from the document as loaded. If an
		// update committed since, posting them would write ledger effects
		// that no longer match the stored lines.
		if version != doc.GetVersion() {
			return apperror.NewConcurrentModification("document", doc.GetID().String())
		}

		if err := e.apply(ctx, doc, ops); err != nil {
			return err
		}

		return e.documents.SetStatus(ctx, doc.GetTenantID(), doc.GetID(),
			entity.StatusDraft, entity.StatusPosted)
	})
	if err != nil {
		return err
	}

	doc.MarkPosted()

	logger.Info(ctx, "document posted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID(),
		"number", doc.GetNumber(),
		"operations", len(ops))

	return nil
}

// apply mutates the locked cells and writes the journal.
func (e *Engine) apply(ctx context.Context, doc Postable, ops []CellOperation) error {
	tenantID := doc.GetTenantID()
	keys := uniqueSortedKeys(ops)

	// Credited cells may not exist yet; FOR UPDATE on an absent row
	// locks nothing. Insert empty rows first so every credit target is
	// actually locked below.
	if creditKeys := uniqueSortedCreditKeys(ops); len(creditKeys) > 0 {
		if err := e.ledger.EnsureCells(ctx, tenantID, creditKeys); err != nil {
			return err
		}
	}

	locked, err := e.ledger.LockCells(ctx, tenantID, keys)
	if err != nil {
		return err
	}

	cells := make(map[CellKey]*entity.LedgerCell, len(locked))
	existed := make(map[CellKey]bool, len(locked))
	for i := range locked {
		key := CellKey{
			WarehouseID: locked[i].WarehouseID,
			LocationID:  locked[i].LocationID,
			ItemID:      locked[i].ItemID,
		}
		cells[key] = &locked[i]
		existed[key] = true
	}

	now := time.Now().UTC()
	actorID := appctx.GetUserID(ctx)
	records := make([]entity.MovementRecord, 0, len(ops))

	// Average cost of each debited cell before the debit. Credits with
	// CostFrom are valued from here, so moved stock keeps the cost it
	// had at the source.
	debitCost := make(map[CellKey]types.Cost)

	// Debits first: a movement must prove the source has enough stock
	// before the destination is credited.
	for _, op := range ops {
		if op.Kind != OpDebit {
			continue
		}

		qty := types.RoundQuantity(op.Quantity)
		cell := cells[op.Key]

		available := types.Zero()
		if cell != nil {
			available = cell.Quantity
		}
		if available.LessThan(qty) {
			return apperror.NewInsufficientStock(
				op.Key.String(), available.String(), qty.String())
		}

		if _, seen := debitCost[op.Key]; !seen {
			debitCost[op.Key] = cell.AverageCost
		}

		cell.Quantity = types.RoundQuantity(cell.Quantity.Sub(qty))
		cell.LastMovementAt = now
		cell.UpdatedAt = now

		records = append(records,
			record(doc, op, qty.Neg(), cell.Quantity, cell.AverageCost, actorID, now))
	}

	for _, op := range ops {
		if op.Kind != OpCredit {
			continue
		}

		qty := types.RoundQuantity(op.Quantity)

		unitCost := types.RoundCost(op.UnitCost)
		if op.CostFrom != nil {
			cost, ok := debitCost[*op.CostFrom]
			if !ok {
				return apperror.NewInternal(errors.New("credit references an undebited cell")).
					WithDetail("cell", op.CostFrom.String())
			}
			unitCost = cost
		}

		cell := cells[op.Key]
		if cell == nil {
			cell = &entity.LedgerCell{
				TenantID:    tenantID,
				WarehouseID: op.Key.WarehouseID,
				LocationID:  op.Key.LocationID,
				ItemID:      op.Key.ItemID,
				Quantity:    types.Zero(),
				AverageCost: types.Zero(),
			}
			cells[op.Key] = cell
		}

		if cell.Quantity.IsZero() {
			cell.AverageCost = unitCost
		} else {
			// weighted average: (oldQty*oldCost + qty*unitCost) / (oldQty + qty)
			oldValue := cell.Quantity.Mul(cell.AverageCost)
			newValue := qty.Mul(unitCost)
			total := cell.Quantity.Add(qty)
			cell.AverageCost = types.RoundCost(oldValue.Add(newValue).Div(total))
		}

		cell.Quantity = types.RoundQuantity(cell.Quantity.Add(qty))
		cell.LastMovementAt = now
		cell.UpdatedAt = now

		records = append(records,
			record(doc, op, qty, cell.Quantity, unitCost, actorID, now))
	}

	// Persist in key order: emptied cells are removed, the rest upserted.
	for _, key := range keys {
		cell := cells[key]
		if cell == nil {
			continue
		}
		if cell.Quantity.IsZero() {
			if existed[key] {
				if err := e.ledger.DeleteCell(ctx, tenantID, key); err != nil {
					return err
				}
			}
			continue
		}
		if err := e.ledger.UpsertCell(ctx, cell); err != nil {
			return err
		}
	}

	return e.ledger.AppendRecords(ctx, records)
}

// validateOperations checks the operation list invariants before any
// database work.
func validateOperations(ops []CellOperation) error {
	if len(ops) == 0 {
		return apperror.NewValidation("document has no stock effects")
	}

	for i, op := range ops {
		// Validate what will actually be applied: a raw quantity like
		// 0.0004 is positive but rounds to zero.
		if types.RoundQuantity(op.Quantity).LessThanOrEqual(types.Zero()) {
			return apperror.NewValidation("operation quantity must be positive").
				WithDetail("index", i).
				WithDetail("cell", op.Key.String())
		}
		if id.IsNil(op.Key.WarehouseID) || id.IsNil(op.Key.LocationID) || id.IsNil(op.Key.ItemID) {
			return apperror.NewValidation("operation cell is incomplete").
				WithDetail("index", i)
		}
		if op.Kind == OpCredit && op.CostFrom == nil && op.UnitCost.IsNegative() {
			return apperror.NewValidation("credit unit cost must not be negative").
				WithDetail("index", i).
				WithDetail("cell", op.Key.String())
		}
	}

	return nil
}

// uniqueSortedKeys returns the distinct cell keys in lock order.
func uniqueSortedKeys(ops []CellOperation) []CellKey {
	return collectKeys(ops, func(CellOperation) bool { return true })
}

// uniqueSortedCreditKeys returns the distinct credited cell keys in
// lock order. Inserts follow the same order as locks, so two postings
// creating overlapping cells cannot deadlock.
func uniqueSortedCreditKeys(ops []CellOperation) []CellKey {
	return collectKeys(ops, func(op CellOperation) bool { return op.Kind == OpCredit })
}

func collectKeys(ops []CellOperation, include func(CellOperation) bool) []CellKey {
	seen := make(map[CellKey]struct{}, len(ops))
	keys := make([]CellKey, 0, len(ops))
	for _, op := range ops {
		if !include(op) {
			continue
		}
		if _, ok := seen[op.Key]; ok {
			continue
		}
		seen[op.Key] = struct{}{}
		keys = append(keys, op.Key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) < 0
	})

	return keys
}
