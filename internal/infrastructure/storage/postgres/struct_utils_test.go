package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comercia/internal/core/entity"
	"comercia/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	entity.Owned
	SKU string `db:"sku" json:"sku"`
}

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{
		"id", "version", "created_at", "updated_at", "name", "business_id", "sku",
	}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
}

func TestStructToMap_EmbeddedStructs(t *testing.T) {
	businessID := id.New()
	cat := mockCatalog{
		Catalog: entity.Catalog{
			Base: entity.Base{
				ID:      id.New(),
				Version: 5,
			},
			Name: "Espresso Beans",
		},
		Owned: entity.Owned{BusinessID: businessID},
		SKU:   "SKU-001",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "Espresso Beans", m["name"])
	assert.Equal(t, businessID, m["business_id"])
	assert.Equal(t, "SKU-001", m["sku"])
}

func TestStructToMap_SkipsUntaggedFields(t *testing.T) {
	type withTransient struct {
		ID    id.ID  `db:"id"`
		Name  string `db:"name"`
		Cache string `db:"-"`
		plain string
	}

	m := StructToMap(withTransient{Name: "x", Cache: "y", plain: "z"})

	assert.Contains(t, m, "id")
	assert.Contains(t, m, "name")
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 2)
}
