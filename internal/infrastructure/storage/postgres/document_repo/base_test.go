package document_repo

import (
	"testing"
)

func TestParseOrderBy(t *testing.T) {
	repo := NewBaseDocumentRepo[any](nil, "doc_test",
		[]string{"id", "number", "date", "warehouse_id"},
		func() any { return nil })

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to date desc", orderBy: "", want: "date DESC"},
		{name: "plain field ascends", orderBy: "number", want: "number ASC"},
		{name: "minus prefix descends", orderBy: "-date", want: "date DESC"},
		{name: "plus prefix ascends", orderBy: "+status", want: "status ASC"},
		{name: "entity column allowed", orderBy: "warehouse_id", want: "warehouse_id ASC"},
		{name: "unknown field rejected", orderBy: "evil; DROP TABLE", wantErr: true},
		{name: "bare prefix rejected", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOrderBy(%q) error = %v, wantErr %v", tt.orderBy, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseOrderBy(%q) = %q, want %q", tt.orderBy, got, tt.want)
			}
		})
	}
}
