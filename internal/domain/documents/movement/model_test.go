package movement

import (
	"context"
	"testing"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/posting"
)

func TestValidate(t *testing.T) {
	tenant := id.New()
	whA := id.New()
	whB := id.New()
	locA := id.New()
	locB := id.New()
	item := id.New()

	tests := []struct {
		name    string
		build   func() *Movement
		wantErr bool
	}{
		{
			name: "valid internal movement",
			build: func() *Movement {
				m := New(tenant, TypeInternal, whA, whA)
				m.AddLine(item, locA, locB, types.MustFromString("5"))
				return m
			},
		},
		{
			name: "valid external movement",
			build: func() *Movement {
				m := New(tenant, TypeExternal, whA, whB)
				m.AddLine(item, locA, locA, types.MustFromString("5"))
				return m
			},
		},
		{
			name: "internal movement to another warehouse",
			build: func() *Movement {
				m := New(tenant, TypeInternal, whA, whA)
				m.WarehouseToID = whB
				m.AddLine(item, locA, locB, types.MustFromString("5"))
				return m
			},
			wantErr: true,
		},
		{
			name: "external movement to same warehouse",
			build: func() *Movement {
				m := New(tenant, TypeExternal, whA, whA)
				m.AddLine(item, locA, locB, types.MustFromString("5"))
				return m
			},
			wantErr: true,
		},
		{
			name: "same source and destination cell",
			build: func() *Movement {
				m := New(tenant, TypeInternal, whA, whA)
				m.AddLine(item, locA, locA, types.MustFromString("5"))
				return m
			},
			wantErr: true,
		},
		{
			name: "no lines",
			build: func() *Movement {
				return New(tenant, TypeInternal, whA, whA)
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			build: func() *Movement {
				m := New(tenant, TypeInternal, whA, whA)
				m.AddLine(item, locA, locB, types.Zero())
				return m
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

func TestCellOperations(t *testing.T) {
	m := New(id.New(), TypeExternal, id.New(), id.New())
	locFrom := id.New()
	locTo := id.New()
	item := id.New()
	m.AddLine(item, locFrom, locTo, types.MustFromString("3.5"))

	ops, err := m.CellOperations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}

	if ops[0].Kind != posting.OpDebit {
		t.Errorf("first operation must be the debit")
	}
	if ops[0].Key.WarehouseID != m.WarehouseFromID || ops[0].Key.LocationID != locFrom {
		t.Errorf("debit targets wrong cell: %s", ops[0].Key)
	}

	if ops[1].Kind != posting.OpCredit {
		t.Errorf("second operation must be the credit")
	}
	if ops[1].Key.WarehouseID != m.WarehouseToID || ops[1].Key.LocationID != locTo {
		t.Errorf("credit targets wrong cell: %s", ops[1].Key)
	}
	if ops[1].CostFrom == nil || *ops[1].CostFrom != ops[0].Key {
		t.Errorf("credit must take its cost from the debited cell")
	}
}

func TestNew_InternalForcesSameWarehouse(t *testing.T) {
	whA := id.New()
	m := New(id.New(), TypeInternal, whA, id.New())
	if m.WarehouseToID != whA {
		t.Errorf("internal movement must stay in the source warehouse")
	}
}
