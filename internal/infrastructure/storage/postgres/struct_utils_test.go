package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shopledger/internal/core/entity"
	"shopledger/internal/core/id"
)

type mockDocument struct {
	entity.BaseDocument
	Number string `db:"number" json:"number"`
	Note   string `db:"note" json:"note"`
	Skip   string `db:"-" json:"skip"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{
		"id", "deletion_mark", "version",
		"created_at", "updated_at", "created_by", "updated_by",
		"number", "note",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skip")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	doc := mockDocument{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: "tester",
		},
		Number: "PO-0001",
		Note:   "urgent",
		Skip:   "must not appear",
	}

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "tester", m["created_by"])
	assert.Equal(t, "PO-0001", m["number"])
	assert.Equal(t, "urgent", m["note"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_Pointer(t *testing.T) {
	doc := &mockDocument{Number: "PO-0002"}

	m := StructToMap(doc)

	assert.Equal(t, "PO-0002", m["number"])
}
