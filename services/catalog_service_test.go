package services

import (
	"testing"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildBundleView(t *testing.T) {
	tray := stockedProduct("Teak Tray", "1200", 5)
	bowl := stockedProduct("Sheesham Bowl", "800", 2)
	bowl.EffectivePrice = dec("720")

	tests := []struct {
		name        string
		price       string
		ids         []uuid.UUID
		wantTotal   string
		wantSavings string
	}{
		{"savings against effective prices", "1700", []uuid.UUID{tray.ID, bowl.ID}, "1920", "220"},
		{"bundle dearer than items saves nothing", "2500", []uuid.UUID{tray.ID, bowl.ID}, "1920", "0"},
		{"missing products count as nothing", "1000", []uuid.UUID{tray.ID, uuid.New()}, "1200", "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &tables.ProductBundle{ID: uuid.New(), Name: "Set", ProductIDs: tt.ids, BundlePrice: dec(tt.price)}
			view := BuildBundleView(b, productMap(tray, bowl))
			assert.True(t, dec(tt.wantTotal).Equal(view.ItemsTotal), "items total %s", view.ItemsTotal)
			assert.True(t, dec(tt.wantSavings).Equal(view.Savings), "savings %s", view.Savings)
			assert.Equal(t, b.ID, view.ID)
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, uniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}))
	assert.Empty(t, uniqueIDs(nil))
}

func TestApplyCategoryRequest(t *testing.T) {
	c := &tables.Category{}
	applyCategoryRequest(c, &structs.CategoryRequest{Name: "  Serving Boards ", IsActive: true})
	assert.Equal(t, "Serving Boards", c.Name)
	assert.Equal(t, "serving-boards", c.Slug)

	applyCategoryRequest(c, &structs.CategoryRequest{Name: "Boards", Slug: "Chopping Boards"})
	assert.Equal(t, "chopping-boards", c.Slug)
	assert.False(t, c.IsActive)
}
