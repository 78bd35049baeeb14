package document_repo

import (
	"testing"

	"shopledger/internal/core/apperror"
)

func newTestRepo() *BaseDocumentRepo[any] {
	return NewBaseDocumentRepo[any](
		nil,
		"test_docs",
		[]string{"id", "deletion_mark", "version", "date", "total_price"},
		[]string{"description"},
		func() any { return nil },
	)
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to date DESC", orderBy: "", want: "date DESC"},
		{name: "bare column", orderBy: "total_price", want: "total_price ASC"},
		{name: "explicit ASC", orderBy: "date ASC", want: "date ASC"},
		{name: "explicit DESC", orderBy: "date DESC", want: "date DESC"},
		{name: "dash prefix", orderBy: "-total_price", want: "total_price DESC"},
		{name: "lowercase desc", orderBy: "date desc", want: "date DESC"},
		{name: "unknown column rejected", orderBy: "evil; DROP TABLE", wantErr: true},
		{name: "unknown bare column rejected", orderBy: "supplier_name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.orderBy, got)
				}
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeValidation {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy(%q) failed: %v", tt.orderBy, err)
			}
			if got != tt.want {
				t.Errorf("parseOrderBy(%q)\nwant: %s\ngot:  %s", tt.orderBy, tt.want, got)
			}
		})
	}
}
