package handling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductListOptions(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		opts, err := ParseProductListOptions(httptest.NewRequest(http.MethodGet, "/products", nil))
		require.NoError(t, err)
		assert.Zero(t, opts.Page)
		assert.Nil(t, opts.OnSale)
	})

	t.Run("all filters", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet,
			"/products?page=2&page_size=12&category=Bowls&wood_type=teak&on_sale=true&is_featured=false"+
				"&min_price=499.50&max_price=2500&search=%20tray%20&sort_by=price&sort_direction=asc&low_stock=1", nil)

		opts, err := ParseProductListOptions(r)
		require.NoError(t, err)
		assert.Equal(t, 2, opts.Page)
		assert.Equal(t, 12, opts.PageSize)
		assert.Equal(t, "Bowls", opts.Category)
		assert.Equal(t, "teak", opts.WoodType)
		assert.Equal(t, "tray", opts.SearchTerm)
		require.NotNil(t, opts.OnSale)
		assert.True(t, *opts.OnSale)
		require.NotNil(t, opts.IsFeatured)
		assert.False(t, *opts.IsFeatured)
		assert.Nil(t, opts.IsTrending)
		assert.Equal(t, "499.5", opts.MinPrice.String())
		assert.Equal(t, "2500", opts.MaxPrice.String())
		assert.Equal(t, "ASC", opts.SortDirection)
		assert.True(t, opts.LowStockOnly)
	})

	for _, q := range []string{"page=abc", "on_sale=maybe", "min_price=cheap", "max_price=-4"} {
		t.Run("rejects "+q, func(t *testing.T) {
			_, err := ParseProductListOptions(httptest.NewRequest(http.MethodGet, "/products?"+q, nil))
			assert.Error(t, err)
		})
	}
}

func TestParseOrderListOptions(t *testing.T) {
	opts, err := ParseOrderListOptions(httptest.NewRequest(http.MethodGet, "/admin/orders?status=SHIPPED&search=WZ-", nil))
	require.NoError(t, err)
	assert.EqualValues(t, "shipped", opts.Status)
	assert.Equal(t, "WZ-", opts.Search)

	_, err = ParseOrderListOptions(httptest.NewRequest(http.MethodGet, "/admin/orders?status=lost", nil))
	assert.Error(t, err)
}

func TestParseUUIDParam(t *testing.T) {
	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id := uuid.New()
	got, err := ParseUUIDParam(withParam(id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(withParam("nope"), "id")
	assert.Error(t, err)
	_, err = ParseUUIDParam(withParam(uuid.Nil.String()), "id")
	assert.Error(t, err)
}

func TestQueryFlag(t *testing.T) {
	assert.True(t, QueryFlag(httptest.NewRequest(http.MethodGet, "/?all=true", nil), "all"))
	assert.False(t, QueryFlag(httptest.NewRequest(http.MethodGet, "/?all=yes", nil), "all"))
	assert.False(t, QueryFlag(httptest.NewRequest(http.MethodGet, "/", nil), "all"))
}
