package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"stockbook/internal/core/id"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: strict calls pass
// (tenant, key) and bump by 1, cached calls pass (tenant, key, size)
// and bump by size.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 3 {
		if val, ok := args[2].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.calls++

	return &mockRow{val: m.currentValue}
}

func TestNext_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	tenant := id.New()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, tenant, "receipt", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RCP-2026-000001" {
		t.Errorf("expected RCP-2026-000001, got %s", num)
	}

	num, err = svc.Next(ctx, tenant, "receipt", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RCP-2026-000002" {
		t.Errorf("expected RCP-2026-000002, got %s", num)
	}
}

func TestNext_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := NewWithOptions(q, Options{Strategy: StrategyCached, RangeSize: 10})
	ctx := context.Background()
	tenant := id.New()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// first call reserves the range 1..10
	num, err := svc.Next(ctx, tenant, "movement", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "MOV-2026-000001" {
		t.Errorf("expected MOV-2026-000001, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call, got %d", q.calls)
	}

	// subsequent calls within the range stay in memory
	for i := 2; i <= 10; i++ {
		num, err = svc.Next(ctx, tenant, "movement", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if num != "MOV-2026-000010" {
		t.Errorf("expected MOV-2026-000010, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call after range use, got %d", q.calls)
	}

	// range exhausted: the next call reserves 11..20
	num, err = svc.Next(ctx, tenant, "movement", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "MOV-2026-000011" {
		t.Errorf("expected MOV-2026-000011, got %s", num)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}

func TestNext_TenantIsolationInCache(t *testing.T) {
	q := &mockQuerier{}
	svc := NewWithOptions(q, Options{Strategy: StrategyCached, RangeSize: 10})
	ctx := context.Background()
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// Two tenants must not share a cached range even though the mock
	// backend is a single counter.
	numA, err := svc.Next(ctx, id.New(), "writeoff", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	numB, err := svc.Next(ctx, id.New(), "writeoff", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if numA != "WRO-2026-000001" {
		t.Errorf("expected WRO-2026-000001 for first tenant, got %s", numA)
	}
	if numB != "WRO-2026-000011" {
		t.Errorf("expected WRO-2026-000011 for second tenant, got %s", numB)
	}
	if q.calls != 2 {
		t.Errorf("expected one reservation per tenant, got %d calls", q.calls)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"RCP-2026-000042", 42},
		{"MOV-2026-000001", 1},
		{"garbage", -1},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
