package receipt

import (
	"context"
	"testing"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/posting"
)

func TestValidate(t *testing.T) {
	tenant := id.New()
	wh := id.New()
	loc := id.New()
	item := id.New()

	tests := []struct {
		name    string
		build   func() *Receipt
		wantErr bool
	}{
		{
			name: "valid receipt",
			build: func() *Receipt {
				r := New(tenant, wh)
				r.AddLine(item, loc, types.MustFromString("10"), types.MustFromString("5.00"))
				return r
			},
		},
		{
			name: "no warehouse",
			build: func() *Receipt {
				r := New(tenant, id.Nil())
				r.AddLine(item, loc, types.MustFromString("10"), types.MustFromString("5.00"))
				return r
			},
			wantErr: true,
		},
		{
			name: "no lines",
			build: func() *Receipt {
				return New(tenant, wh)
			},
			wantErr: true,
		},
		{
			name: "negative price",
			build: func() *Receipt {
				r := New(tenant, wh)
				r.AddLine(item, loc, types.MustFromString("10"), types.MustFromString("-1"))
				return r
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			build: func() *Receipt {
				r := New(tenant, wh)
				r.AddLine(item, loc, types.Zero(), types.MustFromString("5.00"))
				return r
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	r := New(id.New(), id.New())
	loc := id.New()
	r.AddLine(id.New(), loc, types.MustFromString("2"), types.MustFromString("3.50"))
	r.AddLine(id.New(), loc, types.MustFromString("1.5"), types.MustFromString("10.00"))

	if r.TotalQuantity.String() != "3.5" {
		t.Errorf("total quantity = %s, want 3.5", r.TotalQuantity)
	}
	// 2*3.50 + 1.5*10.00 = 22.00
	if r.TotalAmount.String() != "22" {
		t.Errorf("total amount = %s, want 22", r.TotalAmount)
	}
}

func TestCellOperations(t *testing.T) {
	wh := id.New()
	r := New(id.New(), wh)
	loc := id.New()
	item := id.New()
	r.AddLine(item, loc, types.MustFromString("4"), types.MustFromString("2.25"))

	ops, err := r.CellOperations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}

	op := ops[0]
	if op.Kind != posting.OpCredit {
		t.Errorf("receipt must credit the cell")
	}
	if op.Key.WarehouseID != wh || op.Key.LocationID != loc || op.Key.ItemID != item {
		t.Errorf("wrong cell key: %s", op.Key)
	}
	if op.UnitCost.String() != "2.25" {
		t.Errorf("unit cost = %s, want 2.25", op.UnitCost)
	}
}
