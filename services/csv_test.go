package services

import (
	"bytes"
	"strings"
	"testing"
	"woodzire_server/structs/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProductsCSV(t *testing.T) {
	compareAt := dec("2499")
	products := []tables.Product{
		{
			Name:              `Teak "Royal" chair, large`,
			Slug:              "teak-royal-chair",
			Price:             dec("1999"),
			CompareAtPrice:    &compareAt,
			Category:          "Furniture",
			WoodType:          "Teak",
			StockQuantity:     4,
			LowStockThreshold: 2,
			Description:       "Hand carved.\nOiled finish.",
			IsActive:          true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, products))

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, strings.Join(ProductCSVColumns, ","), lines[0])
	assert.Contains(t, lines[1], `"Teak ""Royal"" chair, large"`)
	assert.Contains(t, lines[1], "\"Hand carved.\nOiled finish.\"")
	assert.Contains(t, lines[1], ",2499,")
}

func TestCSVRoundTripKeepsFields(t *testing.T) {
	products := []tables.Product{
		{Name: "Neem comb", Slug: "neem-comb", Price: dec("249"), StockQuantity: 30, LowStockThreshold: 5, IsActive: true, IsTrending: true},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, products))

	rows, rowErrors, err := ParseProductsCSV(&buf)
	require.NoError(t, err)
	require.Empty(t, rowErrors)
	require.Len(t, rows, 1)

	p := rows[0].Product
	assert.Equal(t, "neem-comb", p.Slug)
	assert.True(t, dec("249").Equal(p.Price))
	assert.Nil(t, p.CompareAtPrice)
	assert.Equal(t, 30, p.StockQuantity)
	assert.True(t, p.IsTrending)
	assert.False(t, p.IsFeatured)
	assert.Len(t, rows[0].Columns, len(ProductCSVColumns))
}

func TestParseProductsCSV(t *testing.T) {
	input := "Name,PRICE,Category,Unknown,Stock_Quantity,is_featured\n" +
		"Walnut Tray,1200,Kitchen,ignored,3,yes\n" +
		",500,Kitchen,,1,no\n" +
		"\"Mango wood\nbowl\",\"1,450\",Kitchen,,2,\n" +
		"Broken,abc,Kitchen,,1,no\n" +
		"Stool,800,Furniture,,-2,no\n"

	rows, rowErrors, err := ParseProductsCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "walnut-tray", rows[0].Product.Slug)
	assert.Equal(t, 2, rows[0].Line)
	assert.True(t, rows[0].Product.IsFeatured)
	assert.True(t, rows[0].Product.IsActive, "is_active defaults to true")
	assert.ElementsMatch(t, []string{"name", "slug", "price", "category", "stock_quantity", "is_featured"}, rows[0].Columns)

	assert.Equal(t, "mango-wood-bowl", rows[1].Product.Slug)
	assert.True(t, dec("1450").Equal(rows[1].Product.Price))
	assert.Equal(t, 4, rows[1].Line)

	require.Len(t, rowErrors, 3)
	assert.Equal(t, 3, rowErrors[0].Line)
	assert.Contains(t, rowErrors[0].Message, "name is required")
	assert.Equal(t, 6, rowErrors[1].Line)
	assert.Contains(t, rowErrors[1].Message, "invalid price")
	assert.Equal(t, 7, rowErrors[2].Line)
	assert.Contains(t, rowErrors[2].Message, "stock_quantity")
}

func TestParseProductsCSVHeaderErrors(t *testing.T) {
	_, _, err := ParseProductsCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, _, err = ParseProductsCSV(strings.NewReader("name,category\nTray,Kitchen\n"))
	assert.ErrorContains(t, err, `"price"`)
}
