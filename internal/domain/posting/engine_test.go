package posting_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/posting"
)

// --- fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeLedger keeps cells in memory and, like a real database, only
// changes state through UpsertCell / DeleteCell / AppendRecords.
// LockCells hands out copies.
type fakeLedger struct {
	cells   map[posting.CellKey]entity.LedgerCell
	records []entity.MovementRecord
	locked  [][]posting.CellKey
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{cells: make(map[posting.CellKey]entity.LedgerCell)}
}

func (f *fakeLedger) EnsureCells(ctx context.Context, tenantID id.ID, keys []posting.CellKey) error {
	for _, key := range keys {
		if _, ok := f.cells[key]; ok {
			continue
		}
		f.cells[key] = entity.LedgerCell{
			TenantID:    tenantID,
			WarehouseID: key.WarehouseID,
			LocationID:  key.LocationID,
			ItemID:      key.ItemID,
			Quantity:    types.Zero(),
			AverageCost: types.Zero(),
		}
	}
	return nil
}

func (f *fakeLedger) LockCells(ctx context.Context, tenantID id.ID, keys []posting.CellKey) ([]entity.LedgerCell, error) {
	f.locked = append(f.locked, keys)
	var out []entity.LedgerCell
	for _, key := range keys {
		if cell, ok := f.cells[key]; ok {
			out = append(out, cell)
		}
	}
	return out, nil
}

func (f *fakeLedger) UpsertCell(ctx context.Context, cell *entity.LedgerCell) error {
	key := posting.CellKey{
		WarehouseID: cell.WarehouseID,
		LocationID:  cell.LocationID,
		ItemID:      cell.ItemID,
	}
	f.cells[key] = *cell
	return nil
}

func (f *fakeLedger) DeleteCell(ctx context.Context, tenantID id.ID, key posting.CellKey) error {
	delete(f.cells, key)
	return nil
}

func (f *fakeLedger) AppendRecords(ctx context.Context, records []entity.MovementRecord) error {
	f.records = append(f.records, records...)
	return nil
}

type fakeDocs struct {
	mu       sync.Mutex
	statuses map[id.ID]entity.DocumentStatus
	versions map[id.ID]int
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		statuses: make(map[id.ID]entity.DocumentStatus),
		versions: make(map[id.ID]int),
	}
}

func (f *fakeDocs) LockStatus(ctx context.Context, tenantID, docID id.ID) (entity.DocumentStatus, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.statuses[docID]
	if !ok {
		return "", 0, apperror.NewNotFound("document", docID.String())
	}
	return status, f.versions[docID], nil
}

func (f *fakeDocs) SetStatus(ctx context.Context, tenantID, docID id.ID, from, to entity.DocumentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses[docID] != from {
		return apperror.NewConcurrentModification("document", docID.String())
	}
	f.statuses[docID] = to
	f.versions[docID]++
	return nil
}

// stockDoc is a minimal Postable with a fixed operation list.
type stockDoc struct {
	entity.Document
	docType string
	ops     []posting.CellOperation
}

func (d *stockDoc) GetDocumentType() string { return d.docType }

func (d *stockDoc) CellOperations(ctx context.Context) ([]posting.CellOperation, error) {
	return d.ops, nil
}

// --- helpers ---

type fixture struct {
	engine *posting.Engine
	ledger *fakeLedger
	docs   *fakeDocs
	tenant id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := newFakeLedger()
	docs := newFakeDocs()
	return &fixture{
		engine: posting.NewEngine(&fakeTxManager{}, ledger, docs),
		ledger: ledger,
		docs:   docs,
		tenant: id.New(),
	}
}

func (f *fixture) newDoc(docType string, ops ...posting.CellOperation) *stockDoc {
	doc := &stockDoc{
		Document: entity.NewDocument(f.tenant),
		docType:  docType,
		ops:      ops,
	}
	doc.Number = "TST-2026-000001"
	f.docs.statuses[doc.ID] = entity.StatusDraft
	f.docs.versions[doc.ID] = doc.Version
	return doc
}

func (f *fixture) seedCell(key posting.CellKey, qty, cost string) {
	f.ledger.cells[key] = entity.LedgerCell{
		TenantID:    f.tenant,
		WarehouseID: key.WarehouseID,
		LocationID:  key.LocationID,
		ItemID:      key.ItemID,
		Quantity:    types.MustFromString(qty),
		AverageCost: types.MustFromString(cost),
	}
}

func newKey() posting.CellKey {
	return posting.CellKey{WarehouseID: id.New(), LocationID: id.New(), ItemID: id.New()}
}

func credit(key posting.CellKey, qty, cost string) posting.CellOperation {
	return posting.CellOperation{
		Kind:     posting.OpCredit,
		Key:      key,
		Quantity: types.MustFromString(qty),
		UnitCost: types.MustFromString(cost),
	}
}

func debit(key posting.CellKey, qty string) posting.CellOperation {
	return posting.CellOperation{
		Kind:     posting.OpDebit,
		Key:      key,
		Quantity: types.MustFromString(qty),
	}
}

// --- tests ---

func TestPost_ReceiptIntoEmptyCell(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	doc := f.newDoc("receipt", credit(key, "10", "5.00"))

	err := f.engine.Post(context.Background(), doc)
	require.NoError(t, err)

	cell := f.ledger.cells[key]
	require.Equal(t, "10", cell.Quantity.String())
	require.Equal(t, "5", cell.AverageCost.String())

	require.Equal(t, entity.StatusPosted, f.docs.statuses[doc.ID])
	require.Equal(t, entity.StatusPosted, doc.Status)

	require.Len(t, f.ledger.records, 1)
	rec := f.ledger.records[0]
	require.Equal(t, "receipt", rec.DocumentType)
	require.Equal(t, doc.ID, rec.DocumentID)
	require.Equal(t, "10", rec.QuantityDelta.String())
	require.Equal(t, "10", rec.QuantityAfter.String())
	require.Equal(t, "5", rec.UnitCost.String())
}

func TestPost_WeightedAverageCost(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	f.seedCell(key, "10", "5.00")

	// 10 @ 5.00 + 10 @ 7.00 -> 20 @ 6.00
	doc := f.newDoc("receipt", credit(key, "10", "7.00"))
	require.NoError(t, f.engine.Post(context.Background(), doc))

	cell := f.ledger.cells[key]
	require.Equal(t, "20", cell.Quantity.String())
	require.Equal(t, "6", cell.AverageCost.String())
}

func TestPost_WeightedAverageCostRounding(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	f.seedCell(key, "1", "0.01")

	// (1*0.01 + 2*0.02) / 3 = 0.01666... -> 0.02 (half up)
	doc := f.newDoc("receipt", credit(key, "2", "0.02"))
	require.NoError(t, f.engine.Post(context.Background(), doc))

	cell := f.ledger.cells[key]
	require.Equal(t, "3", cell.Quantity.String())
	require.Equal(t, "0.02", cell.AverageCost.String())
}

func TestPost_QuantityRoundedToThreePlaces(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	doc := f.newDoc("receipt", credit(key, "2.0005", "1.00"))

	require.NoError(t, f.engine.Post(context.Background(), doc))

	cell := f.ledger.cells[key]
	require.Equal(t, "2.001", cell.Quantity.String())
}

func TestPost_WriteoffUsesCellCost(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	f.seedCell(key, "20", "6.00")

	doc := f.newDoc("writeoff", debit(key, "5"))
	require.NoError(t, f.engine.Post(context.Background(), doc))

	// debit reduces quantity, the average cost is untouched
	cell := f.ledger.cells[key]
	require.Equal(t, "15", cell.Quantity.String())
	require.Equal(t, "6", cell.AverageCost.String())

	require.Len(t, f.ledger.records, 1)
	rec := f.ledger.records[0]
	require.Equal(t, "-5", rec.QuantityDelta.String())
	require.Equal(t, "15", rec.QuantityAfter.String())
	require.Equal(t, "6", rec.UnitCost.String())
}

func TestPost_WriteoffToZeroRemovesCell(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	f.seedCell(key, "5", "3.50")

	doc := f.newDoc("writeoff", debit(key, "5"))
	require.NoError(t, f.engine.Post(context.Background(), doc))

	_, exists := f.ledger.cells[key]
	require.False(t, exists, "emptied cell must be removed")

	require.Len(t, f.ledger.records, 1)
	require.Equal(t, "0", f.ledger.records[0].QuantityAfter.String())
}

func TestPost_InsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	okKey := newKey()
	poorKey := newKey()
	f.seedCell(okKey, "100", "1.00")
	f.seedCell(poorKey, "2", "1.00")

	doc := f.newDoc("writeoff",
		debit(okKey, "50"),
		debit(poorKey, "5"),
	)

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, poorKey.String(), appErr.Details["cell"])
	require.Equal(t, "2", appErr.Details["available"])
	require.Equal(t, "5", appErr.Details["requested"])

	// nothing changed: both cells intact, no journal rows, still a draft
	require.Equal(t, "100", f.ledger.cells[okKey].Quantity.String())
	require.Equal(t, "2", f.ledger.cells[poorKey].Quantity.String())
	require.Empty(t, f.ledger.records)
	require.Equal(t, entity.StatusDraft, f.docs.statuses[doc.ID])
	require.Equal(t, entity.StatusDraft, doc.Status)
}

func TestPost_DebitFromMissingCellIsInsufficient(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc("writeoff", debit(newKey(), "1"))

	err := f.engine.Post(context.Background(), doc)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "0", appErr.Details["available"])
}

func TestPost_AlreadyPosted(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	doc := f.newDoc("receipt", credit(key, "1", "1.00"))

	require.NoError(t, f.engine.Post(context.Background(), doc))

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeAlreadyPosted, appErr.Code)

	// the first posting's effects stand untouched
	require.Equal(t, "1", f.ledger.cells[key].Quantity.String())
	require.Len(t, f.ledger.records, 1)
}

func TestPost_CancelledDocumentIsInvalidState(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc("receipt", credit(newKey(), "1", "1.00"))
	f.docs.statuses[doc.ID] = entity.StatusCancelled

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeInvalidState, appErr.Code)
	require.Empty(t, f.ledger.records)
}

func TestPost_MovementKeepsSourceCost(t *testing.T) {
	f := newFixture(t)
	src := newKey()
	dst := newKey()
	f.seedCell(src, "10", "4.25")
	f.seedCell(dst, "10", "8.00")

	doc := f.newDoc("movement",
		debit(src, "6"),
		posting.CellOperation{
			Kind:     posting.OpCredit,
			Key:      dst,
			Quantity: types.MustFromString("6"),
			CostFrom: &src,
		},
	)
	require.NoError(t, f.engine.Post(context.Background(), doc))

	require.Equal(t, "4", f.ledger.cells[src].Quantity.String())
	require.Equal(t, "4.25", f.ledger.cells[src].AverageCost.String())

	// destination: (10*8.00 + 6*4.25) / 16 = 6.59375 -> 6.59
	cell := f.ledger.cells[dst]
	require.Equal(t, "16", cell.Quantity.String())
	require.Equal(t, "6.59", cell.AverageCost.String())
}

func TestPost_MovementEmptiesSourceAndCarriesCost(t *testing.T) {
	f := newFixture(t)
	src := newKey()
	dst := newKey()
	f.seedCell(src, "7.5", "2.40")

	doc := f.newDoc("movement",
		debit(src, "7.5"),
		posting.CellOperation{
			Kind:     posting.OpCredit,
			Key:      dst,
			Quantity: types.MustFromString("7.5"),
			CostFrom: &src,
		},
	)
	require.NoError(t, f.engine.Post(context.Background(), doc))

	// the source is emptied and removed, the cost travels to the
	// destination anyway
	_, exists := f.ledger.cells[src]
	require.False(t, exists)

	cell := f.ledger.cells[dst]
	require.Equal(t, "7.5", cell.Quantity.String())
	require.Equal(t, "2.4", cell.AverageCost.String())
}

func TestPost_MovementConservesQuantity(t *testing.T) {
	f := newFixture(t)
	src := newKey()
	dst := newKey()
	f.seedCell(src, "12.345", "1.00")

	doc := f.newDoc("movement",
		debit(src, "3.456"),
		posting.CellOperation{
			Kind:     posting.OpCredit,
			Key:      dst,
			Quantity: types.MustFromString("3.456"),
			CostFrom: &src,
		},
	)
	require.NoError(t, f.engine.Post(context.Background(), doc))

	total := f.ledger.cells[src].Quantity.Add(f.ledger.cells[dst].Quantity)
	require.Equal(t, "12.345", total.String())

	// journal deltas for the two cells cancel out
	require.Len(t, f.ledger.records, 2)
	sum := f.ledger.records[0].QuantityDelta.Add(f.ledger.records[1].QuantityDelta)
	require.True(t, sum.IsZero())
}

func TestPost_LocksCellsInSortedOrder(t *testing.T) {
	f := newFixture(t)

	var ops []posting.CellOperation
	keys := make([]posting.CellKey, 5)
	for i := range keys {
		keys[i] = newKey()
		f.seedCell(keys[i], "10", "1.00")
		ops = append(ops, debit(keys[i], "1"))
	}

	doc := f.newDoc("writeoff", ops...)
	require.NoError(t, f.engine.Post(context.Background(), doc))

	require.Len(t, f.ledger.locked, 1)
	locked := f.ledger.locked[0]
	require.Len(t, locked, 5)
	for i := 1; i < len(locked); i++ {
		require.Negative(t, locked[i-1].Compare(locked[i]),
			"lock order must be strictly ascending")
	}
}

func TestPost_EmptyOperationsRejected(t *testing.T) {
	f := newFixture(t)
	doc := f.newDoc("receipt")

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestPost_NonPositiveQuantityRejected(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	doc := f.newDoc("receipt", credit(key, "0", "1.00"))

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestPost_QuantityRoundingToZeroRejected(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	f.seedCell(key, "10", "1.00")

	// 0.0004 is positive but rounds to zero at three decimal places;
	// applying it would debit nothing while journaling a movement
	doc := f.newDoc("writeoff", debit(key, "0.0004"))

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
	require.Empty(t, f.ledger.records)
}

func TestPost_StaleDocumentVersionRejected(t *testing.T) {
	f := newFixture(t)
	key := newKey()
	doc := f.newDoc("receipt", credit(key, "10", "5.00"))

	// an update committed after this copy of the document was loaded
	f.docs.versions[doc.ID] = doc.Version + 1

	err := f.engine.Post(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeConcurrentModification, appErr.Code)

	// nothing posted: no journal rows, the document stays a draft
	require.Empty(t, f.ledger.records)
	require.Equal(t, entity.StatusDraft, f.docs.statuses[doc.ID])
	require.Equal(t, entity.StatusDraft, doc.Status)
}

func TestPost_JournalRecordsDebitsBeforeCredits(t *testing.T) {
	f := newFixture(t)
	src := newKey()
	dst := newKey()
	f.seedCell(src, "10", "1.00")

	// operation list puts the credit first; the engine still applies
	// and journals the debit first
	doc := f.newDoc("movement",
		posting.CellOperation{
			Kind:     posting.OpCredit,
			Key:      dst,
			Quantity: types.MustFromString("4"),
			CostFrom: &src,
		},
		debit(src, "4"),
	)
	require.NoError(t, f.engine.Post(context.Background(), doc))

	require.Len(t, f.ledger.records, 2)
	require.True(t, f.ledger.records[0].QuantityDelta.IsNegative())
	require.True(t, f.ledger.records[1].QuantityDelta.IsPositive())
}

// --- row-locking fakes ---
//
// The fakes above run single-threaded. The ones below reproduce the
// locking semantics the real store relies on: a row lock can only be
// taken on a row that exists, EnsureCells materializes missing rows,
// and every lock is held until the surrounding transaction finishes.

type txLocks struct {
	mu   sync.Mutex
	held []*sync.Mutex
}

func (l *txLocks) holds(m *sync.Mutex) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, held := range l.held {
		if held == m {
			return true
		}
	}
	return false
}

func (l *txLocks) add(m *sync.Mutex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = append(l.held, m)
}

type txLocksKey struct{}

// lockingTxManager releases the row locks a transaction acquired once
// its function returns, like commit or rollback would.
type lockingTxManager struct{}

func (m *lockingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	locks := &txLocks{}
	err := fn(context.WithValue(ctx, txLocksKey{}, locks))
	for i := len(locks.held) - 1; i >= 0; i-- {
		locks.held[i].Unlock()
	}
	return err
}

// rowLockLedger is an in-memory ledger with one mutex per cell row.
// State is always re-read after the lock is acquired, so a transaction
// that waited on a lock sees what the holder committed.
type rowLockLedger struct {
	mu       sync.Mutex
	cells    map[posting.CellKey]entity.LedgerCell
	rowLocks map[posting.CellKey]*sync.Mutex
	records  []entity.MovementRecord
}

func newRowLockLedger() *rowLockLedger {
	return &rowLockLedger{
		cells:    make(map[posting.CellKey]entity.LedgerCell),
		rowLocks: make(map[posting.CellKey]*sync.Mutex),
	}
}

// acquire blocks until the calling transaction holds the row lock.
func (f *rowLockLedger) acquire(ctx context.Context, key posting.CellKey) {
	f.mu.Lock()
	rowLock, ok := f.rowLocks[key]
	if !ok {
		rowLock = &sync.Mutex{}
		f.rowLocks[key] = rowLock
	}
	f.mu.Unlock()

	locks := ctx.Value(txLocksKey{}).(*txLocks)
	if locks.holds(rowLock) {
		return
	}
	rowLock.Lock()
	locks.add(rowLock)
}

func (f *rowLockLedger) EnsureCells(ctx context.Context, tenantID id.ID, keys []posting.CellKey) error {
	for _, key := range keys {
		f.acquire(ctx, key)
		f.mu.Lock()
		if _, ok := f.cells[key]; !ok {
			f.cells[key] = entity.LedgerCell{
				TenantID:    tenantID,
				WarehouseID: key.WarehouseID,
				LocationID:  key.LocationID,
				ItemID:      key.ItemID,
				Quantity:    types.Zero(),
				AverageCost: types.Zero(),
			}
		}
		f.mu.Unlock()
	}
	return nil
}

func (f *rowLockLedger) LockCells(ctx context.Context, tenantID id.ID, keys []posting.CellKey) ([]entity.LedgerCell, error) {
	var out []entity.LedgerCell
	for _, key := range keys {
		f.mu.Lock()
		_, exists := f.cells[key]
		f.mu.Unlock()
		if !exists {
			continue
		}

		f.acquire(ctx, key)

		f.mu.Lock()
		out = append(out, f.cells[key])
		f.mu.Unlock()
	}
	return out, nil
}

func (f *rowLockLedger) UpsertCell(ctx context.Context, cell *entity.LedgerCell) error {
	key := posting.CellKey{
		WarehouseID: cell.WarehouseID,
		LocationID:  cell.LocationID,
		ItemID:      cell.ItemID,
	}
	f.mu.Lock()
	f.cells[key] = *cell
	f.mu.Unlock()
	return nil
}

func (f *rowLockLedger) DeleteCell(ctx context.Context, tenantID id.ID, key posting.CellKey) error {
	f.mu.Lock()
	delete(f.cells, key)
	f.mu.Unlock()
	return nil
}

func (f *rowLockLedger) AppendRecords(ctx context.Context, records []entity.MovementRecord) error {
	f.mu.Lock()
	f.records = append(f.records, records...)
	f.mu.Unlock()
	return nil
}

// Two receipts credit the same cell that holds no stock yet. Whichever
// transaction wins the row lock creates the cell; the other must wait
// on that lock and then see the first credit, so both quantities land.
func TestPost_ConcurrentFirstCreditsBothLand(t *testing.T) {
	ledger := newRowLockLedger()
	docs := newFakeDocs()
	engine := posting.NewEngine(&lockingTxManager{}, ledger, docs)

	tenant := id.New()
	key := newKey()

	newReceipt := func(number, qty string) *stockDoc {
		doc := &stockDoc{
			Document: entity.NewDocument(tenant),
			docType:  "receipt",
			ops:      []posting.CellOperation{credit(key, qty, "1.00")},
		}
		doc.Number = number
		docs.statuses[doc.ID] = entity.StatusDraft
		docs.versions[doc.ID] = doc.Version
		return doc
	}

	first := newReceipt("TST-2026-000001", "10")
	second := newReceipt("TST-2026-000002", "5")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, doc := range []*stockDoc{first, second} {
		wg.Add(1)
		go func(i int, doc *stockDoc) {
			defer wg.Done()
			errs[i] = engine.Post(context.Background(), doc)
		}(i, doc)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	cell, exists := ledger.cells[key]
	require.True(t, exists)
	require.Equal(t, "15", cell.Quantity.String())
	require.Equal(t, "1", cell.AverageCost.String())

	require.Len(t, ledger.records, 2)
	total := ledger.records[0].QuantityDelta.Add(ledger.records[1].QuantityDelta)
	require.Equal(t, "15", total.String())
}
