package postgres

import (
	"sort"
	"testing"

	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
)

type testCatalog struct {
	entity.Catalog

	Extra   string `db:"extra"`
	Skipped string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	want := []string{"id", "tenant_id", "deletion_mark", "version", "code", "name", "extra"}
	sort.Strings(cols)
	sort.Strings(want)

	if len(cols) != len(want) {
		t.Fatalf("got %d columns %v, want %d", len(cols), cols, len(want))
	}
	for i := range cols {
		if cols[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, cols[i], want[i])
		}
	}
}

func TestStructToMap(t *testing.T) {
	c := testCatalog{
		Catalog: entity.NewCatalog(id.New(), "C-01", "test"),
		Extra:   "value",
		Skipped: "ignored",
		NoTag:   "ignored",
	}

	m := StructToMap(&c)

	if m["code"] != "C-01" {
		t.Errorf("code = %v, want C-01", m["code"])
	}
	if m["name"] != "test" {
		t.Errorf("name = %v, want test", m["name"])
	}
	if m["extra"] != "value" {
		t.Errorf("extra = %v, want value", m["extra"])
	}
	if _, ok := m["-"]; ok {
		t.Error("skipped field leaked into map")
	}
	if len(m) != 7 {
		t.Errorf("map has %d entries %v, want 7", len(m), m)
	}
}
