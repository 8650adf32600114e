package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"autoparts/internal/core/entity"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

type mockProduct struct {
	entity.BaseEntity
	Name         string       `db:"name" json:"name"`
	SellingPrice *types.Money `db:"selling_price" json:"sellingPrice"`
	Lines        []string     `db:"-" json:"lines"`
	Note         string       `json:"note"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockProduct]()

	assert.Equal(t, []string{"id", "version", "created_at", "updated_at", "name", "selling_price"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	price := types.MustMoney("9.99")
	p := &mockProduct{
		BaseEntity: entity.BaseEntity{
			ID:        id.New(),
			Version:   5,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         "OIL FILTER",
		SellingPrice: &price,
		Lines:        []string{"ignored"},
		Note:         "ignored",
	}

	m := StructToMap(p)

	assert.Len(t, m, 6)
	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "OIL FILTER", m["name"])
	assert.Equal(t, &price, m["selling_price"])
	assert.NotContains(t, m, "lines")
}

func TestStructToMap_NotAStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

func TestStructToMap_NilPointer(t *testing.T) {
	var p *mockProduct
	assert.Nil(t, StructToMap(p))
}

func TestExtractDBColumns_PointerTypeMatchesValue(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockProduct](), ExtractDBColumns[*mockProduct]())
}
