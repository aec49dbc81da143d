package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents/movement"
	"stockbook/internal/domain/documents/receipt"
)

func TestReceiptRequestToEntity(t *testing.T) {
	tenant := id.New()
	wh := id.New()
	loc := id.New()
	item := id.New()

	req := ReceiptRequest{
		WarehouseID:  wh,
		SupplierName: "ACME",
		Lines: []ReceiptLineRequest{
			{ItemID: item, LocationID: loc, Quantity: types.MustFromString("5"), PurchasePrice: types.MustFromString("2.50")},
			{ItemID: item, LocationID: loc, Quantity: types.MustFromString("3"), PurchasePrice: types.MustFromString("1.00")},
		},
	}

	doc := req.ToEntity(tenant)

	require.Equal(t, tenant, doc.TenantID)
	require.Equal(t, wh, doc.WarehouseID)
	require.Equal(t, entity.StatusDraft, doc.Status)
	require.Len(t, doc.Lines, 2)
	require.Equal(t, 1, doc.Lines[0].LineNo)
	require.Equal(t, 2, doc.Lines[1].LineNo)
	require.False(t, id.IsNil(doc.Lines[0].LineID))
}

func TestReceiptRequestApplyToPreservesIdentity(t *testing.T) {
	tenant := id.New()
	doc := receipt.New(tenant, id.New())
	origID := doc.ID

	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	req := ReceiptRequest{
		WarehouseID: id.New(),
		Date:        &date,
		Note:        "updated",
	}
	req.ApplyTo(doc)

	require.Equal(t, origID, doc.ID)
	require.Equal(t, tenant, doc.TenantID)
	require.Equal(t, entity.StatusDraft, doc.Status)
	require.Equal(t, "updated", doc.Note)
	require.Equal(t, time.UTC, doc.Date.Location())
	require.Empty(t, doc.Lines)
}

func TestMovementRequestInternalForcesSameWarehouse(t *testing.T) {
	from := id.New()
	req := MovementRequest{
		Type:            string(movement.TypeInternal),
		WarehouseFromID: from,
		WarehouseToID:   id.New(),
	}

	doc := req.ToEntity(id.New())

	require.Equal(t, from, doc.WarehouseFromID)
	require.Equal(t, from, doc.WarehouseToID)
}

func TestMovementRequestExternalKeepsDestination(t *testing.T) {
	from := id.New()
	to := id.New()
	req := MovementRequest{
		Type:            string(movement.TypeExternal),
		WarehouseFromID: from,
		WarehouseToID:   to,
	}

	doc := req.ToEntity(id.New())

	require.Equal(t, to, doc.WarehouseToID)
}
