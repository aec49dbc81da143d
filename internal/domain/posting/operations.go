// Package posting implements document posting into the stock ledger.
//
// A document that affects stock is reduced to a list of cell
// operations (debits and credits against storage cells). The engine
// applies the whole list atomically: it locks the affected cells in a
// deterministic order, applies debits before credits, maintains the
// weighted-average cost on credited cells and writes one journal
// record per operation.
package posting

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// CellKey identifies a storage cell within a tenant:
// warehouse + location + item.
type CellKey struct {
	WarehouseID id.ID
	LocationID  id.ID
	ItemID      id.ID
}

// Compare orders keys by (warehouse, location, item). Cell locks are
// always taken in this order, which rules out lock-order deadlocks
// between concurrent postings.
func (k CellKey) Compare(other CellKey) int {
	if c := bytes.Compare(k.WarehouseID[:], other.WarehouseID[:]); c != 0 {
		return c
	}
	if c := bytes.Compare(k.LocationID[:], other.LocationID[:]); c != 0 {
		return c
	}
	return bytes.Compare(k.ItemID[:], other.ItemID[:])
}

// String formats the key for error details and logs.
func (k CellKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.WarehouseID, k.LocationID, k.ItemID)
}

// OpKind distinguishes debit from credit operations.
type OpKind int

const (
	// OpDebit removes quantity from a cell. Never changes the cell's
	// average cost.
	OpDebit OpKind = iota

	// OpCredit adds quantity to a cell and folds the unit cost into
	// the cell's weighted average.
	OpCredit
)

func (k OpKind) String() string {
	if k == OpDebit {
		return "debit"
	}
	return "credit"
}

// CellOperation is one elementary stock change produced by a document.
type CellOperation struct {
	Kind OpKind
	Key  CellKey

	// Quantity is always positive; the sign comes from Kind.
	Quantity types.Quantity

	// UnitCost values a credit. Ignored for debits (a debit is valued
	// at the cell's current average cost) and when CostFrom is set.
	UnitCost types.Cost

	// CostFrom, when set on a credit, values it at the average cost
	// the referenced cell had before this posting debited it. Used by
	// movements so stock keeps its cost when it changes cells.
	CostFrom *CellKey

	// Note is carried into the journal record.
	Note string
}

// Postable is a document the engine can post.
type Postable interface {
	GetID() id.ID
	GetTenantID() id.ID
	GetDocumentType() string
	GetNumber() string
	GetStatus() entity.DocumentStatus
	GetVersion() int

	// CanPost validates the document before any locks are taken.
	CanPost(ctx context.Context) error

	// CellOperations reduces the document to its stock effects.
	CellOperations(ctx context.Context) ([]CellOperation, error)

	// MarkPosted updates the in-memory document after a successful post.
	MarkPosted()
}

// LedgerStore persists ledger cells and the movement journal.
// All methods run inside the posting transaction.
type LedgerStore interface {
	// EnsureCells inserts empty rows for cells that do not exist yet.
	// FOR UPDATE on an absent row locks nothing, so a credited cell
	// must exist before LockCells or two first-inbound credits could
	// both read "empty" and overwrite each other.
	EnsureCells(ctx context.Context, tenantID id.ID, keys []CellKey) error

	// LockCells locks the given cells with SELECT ... FOR UPDATE and
	// returns those that exist. Keys must be pre-sorted; the store
	// preserves the requested order in the query. Cells that are
	// neither ensured nor stocked are simply absent from the result.
	LockCells(ctx context.Context, tenantID id.ID, keys []CellKey) ([]entity.LedgerCell, error)

	// UpsertCell inserts or updates a cell row.
	UpsertCell(ctx context.Context, cell *entity.LedgerCell) error

	// DeleteCell removes a cell row (called when quantity reaches zero).
	DeleteCell(ctx context.Context, tenantID id.ID, key CellKey) error

	// AppendRecords writes journal rows. Records are append-only.
	AppendRecords(ctx context.Context, records []entity.MovementRecord) error
}

// DocumentStore gives the engine transactional access to document status.
type DocumentStore interface {
	// LockStatus locks the document row FOR UPDATE and returns its
	// current status and version. Taken before any cell lock, so two
	// concurrent posts of the same document serialize here; the
	// version lets the engine detect a draft that changed after it
	// loaded the document's lines.
	LockStatus(ctx context.Context, tenantID, docID id.ID) (entity.DocumentStatus, int, error)

	// SetStatus transitions the document from one status to another.
	SetStatus(ctx context.Context, tenantID, docID id.ID, from, to entity.DocumentStatus) error
}

// record builds a journal row for one applied operation.
func record(doc Postable, op CellOperation, delta, after types.Quantity, unitCost types.Cost, actorID id.ID, now time.Time) entity.MovementRecord {
	return entity.MovementRecord{
		ID:             id.New(),
		TenantID:       doc.GetTenantID(),
		DocumentType:   doc.GetDocumentType(),
		DocumentID:     doc.GetID(),
		DocumentNumber: doc.GetNumber(),
		WarehouseID:    op.Key.WarehouseID,
		LocationID:     op.Key.LocationID,
		ItemID:         op.Key.ItemID,
		QuantityDelta:  delta,
		QuantityAfter:  after,
		UnitCost:       unitCost,
		ActorID:        actorID,
		Note:           op.Note,
		CreatedAt:      now,
	}
}
