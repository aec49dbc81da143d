package receipt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/documents"
)

// --- fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]*Receipt
	lines map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Receipt),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeRepo) Create(ctx context.Context, doc *Receipt) error {
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*Receipt, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("receipt", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*Receipt, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("receipt", number)
}

func (f *fakeRepo) Update(ctx context.Context, doc *Receipt) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return apperror.NewNotFound("receipt", doc.ID.String())
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(f.docs, docID)
	delete(f.lines, docID)
	return nil
}

func (f *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return f.lines[docID], nil
}

func (f *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	f.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error) {
	var result domain.ListResult[*Receipt]
	for _, doc := range f.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Receipt, error) {
	return f.GetByID(ctx, docID)
}

// fakeRefs accepts every reference unless listed as missing.
type fakeRefs struct {
	missing map[id.ID]bool
}

func (f *fakeRefs) WarehouseExists(ctx context.Context, warehouseID id.ID) (bool, error) {
	return !f.missing[warehouseID], nil
}

func (f *fakeRefs) ItemExists(ctx context.Context, itemID id.ID) (bool, error) {
	return !f.missing[itemID], nil
}

func (f *fakeRefs) LocationInWarehouse(ctx context.Context, locationID, warehouseID id.ID) (bool, error) {
	return !f.missing[locationID], nil
}

func newService(refs *fakeRefs) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(
		repo,
		nil, // posting engine unused by CRUD paths
		numerator.NewMockGenerator(),
		documents.NewResolver(refs),
		&fakeTxManager{},
	)
	return svc, repo
}

func validReceipt(wh, loc, item id.ID) *Receipt {
	doc := New(id.New(), wh)
	doc.AddLine(item, loc, types.MustFromString("10"), types.MustFromString("2.50"))
	return doc
}

// --- tests ---

func TestCreateAssignsNumber(t *testing.T) {
	svc, repo := newService(&fakeRefs{})
	wh, loc, item := id.New(), id.New(), id.New()

	doc := validReceipt(wh, loc, item)
	require.NoError(t, svc.Create(context.Background(), doc))

	require.NotEmpty(t, doc.Number)
	require.Contains(t, doc.Number, "RCP-")

	stored, err := repo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc.Number, stored.Number)
	require.Len(t, repo.lines[doc.ID], 1)
}

func TestCreateRejectsUnknownWarehouse(t *testing.T) {
	wh := id.New()
	svc, _ := newService(&fakeRefs{missing: map[id.ID]bool{wh: true}})

	doc := validReceipt(wh, id.New(), id.New())
	err := svc.Create(context.Background(), doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateRejectsPosted(t *testing.T) {
	svc, repo := newService(&fakeRefs{})
	doc := validReceipt(id.New(), id.New(), id.New())
	require.NoError(t, svc.Create(context.Background(), doc))

	repo.docs[doc.ID].Status = entity.StatusPosted

	posted, err := svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	posted.Note = "too late"

	err = svc.Update(context.Background(), posted)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeAlreadyPosted, appErr.Code)
}

func TestDeleteRejectsPosted(t *testing.T) {
	svc, repo := newService(&fakeRefs{})
	doc := validReceipt(id.New(), id.New(), id.New())
	require.NoError(t, svc.Create(context.Background(), doc))

	repo.docs[doc.ID].Status = entity.StatusPosted

	err := svc.Delete(context.Background(), doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeAlreadyPosted, appErr.Code)
}

func TestCancelDraft(t *testing.T) {
	svc, repo := newService(&fakeRefs{})
	doc := validReceipt(id.New(), id.New(), id.New())
	require.NoError(t, svc.Create(context.Background(), doc))

	require.NoError(t, svc.Cancel(context.Background(), doc.ID))
	require.Equal(t, entity.StatusCancelled, repo.docs[doc.ID].Status)

	// Cancelled documents stay cancelled.
	err := svc.Cancel(context.Background(), doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeInvalidState, appErr.Code)
}
