package services

import (
	"testing"
	"time"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestClampStock(t *testing.T) {
	assert.Equal(t, 0, clampStock(-3, false))
	assert.Equal(t, -3, clampStock(-3, true))
	assert.Equal(t, 7, clampStock(7, false))
}

func TestApplyProductRequest(t *testing.T) {
	p := &tables.Product{Name: "Old", Slug: "old", Price: dec("100"), IsActive: true, Images: []string{"a.jpg"}}

	applyProductRequest(p, &structs.ProductRequest{
		Name:               ptr("  Rosewood Box "),
		Price:              ptr(dec("1499")),
		DiscountPercentage: ptr(dec("10")),
		StockQuantity:      ptr(4),
		IsFeatured:         ptr(true),
		IsActive:           ptr(false),
	})

	assert.Equal(t, "Rosewood Box", p.Name)
	assert.Equal(t, "old", p.Slug, "slug is only changed when given")
	assert.True(t, dec("1499").Equal(p.Price))
	assert.True(t, dec("10").Equal(p.DiscountPercentage))
	assert.Equal(t, 4, p.StockQuantity)
	assert.True(t, p.IsFeatured)
	assert.False(t, p.IsActive)
	assert.Equal(t, []string{"a.jpg"}, p.Images, "nil images leave the gallery alone")

	applyProductRequest(p, &structs.ProductRequest{Slug: ptr("Rosewood Box XL"), CompareAtPrice: ptr(dec("1999"))})
	assert.Equal(t, "rosewood-box-xl", p.Slug)
	require.NotNil(t, p.CompareAtPrice)
	assert.True(t, dec("1999").Equal(*p.CompareAtPrice))

	applyProductRequest(p, &structs.ProductRequest{CompareAtPrice: ptr(dec("0"))})
	assert.Nil(t, p.CompareAtPrice, "zero clears the compare-at price")
}

func TestValidateProduct(t *testing.T) {
	valid := func() *tables.Product {
		return &tables.Product{Slug: "box", Price: dec("500"), DiscountPercentage: dec("0")}
	}

	tests := []struct {
		name   string
		mutate func(p *tables.Product)
		field  string
	}{
		{"empty slug", func(p *tables.Product) { p.Slug = "" }, "slug"},
		{"negative price", func(p *tables.Product) { p.Price = dec("-1") }, "price"},
		{"discount over 100", func(p *tables.Product) { p.DiscountPercentage = dec("101") }, "discount_percentage"},
		{"negative delivery", func(p *tables.Product) { p.DeliveryCharge = dec("-5") }, "delivery_charge"},
		{"negative stock", func(p *tables.Product) { p.StockQuantity = -1 }, "stock_quantity"},
	}

	require.NoError(t, validateProduct(valid()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := validateProduct(p)
			var ve *lib.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Errors, 1)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}

	backorder := valid()
	backorder.IsMadeToOrder = true
	backorder.StockQuantity = -2
	assert.NoError(t, validateProduct(backorder))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}

func TestOnSaleCondition(t *testing.T) {
	start, end := testNow.Add(-time.Hour), testNow.Add(time.Hour)
	id := uuid.New()

	cond, args := onSaleCondition(nil, testNow)
	assert.Equal(t, "((is_on_sale = TRUE AND discount_percentage > 0))", cond)
	assert.Empty(t, args)

	sales := []tables.ScheduledSale{
		{SaleType: tables.SaleTypeCategory, TargetCategory: " Bowls ", StartDate: start, EndDate: end, IsActive: true},
		{SaleType: tables.SaleTypeProducts, TargetProductIDs: []uuid.UUID{id}, StartDate: start, EndDate: end, IsActive: true},
		{SaleType: tables.SaleTypeAll, StartDate: start, EndDate: end, IsActive: true, IsPaused: true},
	}
	cond, args = onSaleCondition(sales, testNow)
	assert.Contains(t, cond, "lower(category) IN (?)")
	assert.Contains(t, cond, "id IN (?)")
	assert.Len(t, args, 2)

	sales[2].IsPaused = false
	cond, args = onSaleCondition(sales, testNow)
	assert.Equal(t, "(TRUE)", cond, "a live store-wide sale puts everything on sale")
	assert.Nil(t, args)
}

func TestValidateProductListOptions(t *testing.T) {
	ps := &ProductService{}
	opts := &ProductListOptions{}
	ps.applyDefaultOptions(opts)
	require.NoError(t, validateProductListOptions(opts))
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, "created_at", opts.SortBy)

	opts.SortBy = "password"
	assert.Error(t, validateProductListOptions(opts))

	opts.SortBy = "price"
	opts.MinPrice, opts.MaxPrice = ptr(dec("500")), ptr(dec("100"))
	assert.Error(t, validateProductListOptions(opts))
}
