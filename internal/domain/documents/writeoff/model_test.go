package writeoff

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
		build   func() *Writeoff
		wantErr bool
	}{
		{
			name: "valid writeoff",
			build: func() *Writeoff {
				w := New(tenant, wh)
				w.AddLine(item, loc, types.MustFromString("3"))
				return w
			},
		},
		{
			name: "no warehouse",
			build: func() *Writeoff {
				w := New(tenant, id.Nil())
				w.AddLine(item, loc, types.MustFromString("3"))
				return w
			},
			wantErr: true,
		},
		{
			name: "no lines",
			build: func() *Writeoff {
				return New(tenant, wh)
			},
			wantErr: true,
		},
		{
			name: "no location",
			build: func() *Writeoff {
				w := New(tenant, wh)
				w.AddLine(item, id.Nil(), types.MustFromString("3"))
				return w
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			build: func() *Writeoff {
				w := New(tenant, wh)
				w.AddLine(item, loc, types.Zero())
				return w
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
	w := New(id.New(), id.New())
	loc := id.New()
	w.AddLine(id.New(), loc, types.MustFromString("2.125"))
	w.AddLine(id.New(), loc, types.MustFromString("0.375"))

	if w.TotalQuantity.String() != "2.5" {
		t.Errorf("total quantity = %s, want 2.5", w.TotalQuantity)
	}
}

func TestCellOperations(t *testing.T) {
	wh := id.New()
	w := New(id.New(), wh)
	loc := id.New()
	item := id.New()
	line := w.AddLine(item, loc, types.MustFromString("4"))
	line.Note = "spoilage"

	ops, err := w.CellOperations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}

	op := ops[0]
	if op.Kind != posting.OpDebit {
		t.Errorf("writeoff must debit the cell")
	}
	if op.Key.WarehouseID != wh || op.Key.LocationID != loc || op.Key.ItemID != item {
		t.Errorf("wrong cell key: %s", op.Key)
	}
	if !op.UnitCost.IsZero() {
		t.Errorf("debit carries no cost, got %s", op.UnitCost)
	}
	if op.Note != "spoilage" {
		t.Errorf("note = %q, want spoilage", op.Note)
	}
}
