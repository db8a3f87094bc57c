package services

import (
	"testing"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockedProduct(name string, price string, stock int) *tables.Product {
	return &tables.Product{
		ID:             uuid.New(),
		Name:           name,
		Price:          dec(price),
		EffectivePrice: dec(price),
		StockQuantity:  stock,
		IsActive:       true,
		Images:         []string{"https://cdn.example.com/" + lib.Slugify(name) + ".jpg"},
	}
}

func productMap(products ...*tables.Product) map[uuid.UUID]*tables.Product {
	m := make(map[uuid.UUID]*tables.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func TestPlanCart(t *testing.T) {
	tray := stockedProduct("Teak Tray", "1200", 5)
	bowl := stockedProduct("Sheesham Bowl", "800", 2)
	custom := stockedProduct("Custom Sign", "2500", 0)
	custom.IsMadeToOrder = true

	bundle := &tables.ProductBundle{
		ID:          uuid.New(),
		Name:        "Kitchen Set",
		ProductIDs:  []uuid.UUID{tray.ID, bowl.ID},
		BundlePrice: dec("1700"),
		IsActive:    true,
	}
	bundles := map[uuid.UUID]*tables.ProductBundle{bundle.ID: bundle}
	products := productMap(tray, bowl, custom)

	t.Run("prices products at the effective price", func(t *testing.T) {
		tray.EffectivePrice = dec("1080")
		defer func() { tray.EffectivePrice = tray.Price }()

		plan, err := planCart([]structs.CartLine{{ProductID: &tray.ID, Quantity: 2}}, products, bundles)
		require.NoError(t, err)
		require.Len(t, plan.Lines, 1)
		assert.True(t, dec("1080").Equal(plan.Lines[0].UnitPrice))
		assert.Equal(t, "Teak Tray", plan.Lines[0].Name)
		assert.Equal(t, tray.Images[0], plan.Lines[0].Image)
		assert.Equal(t, map[uuid.UUID]int{tray.ID: 2}, plan.Demand)
	})

	t.Run("bundles consume every component", func(t *testing.T) {
		plan, err := planCart([]structs.CartLine{
			{BundleID: &bundle.ID, Quantity: 1},
			{ProductID: &tray.ID, Quantity: 1},
		}, products, bundles)
		require.NoError(t, err)
		require.Len(t, plan.Lines, 2)
		assert.True(t, dec("1700").Equal(plan.Lines[0].UnitPrice))
		assert.Equal(t, tray.Images[0], plan.Lines[0].Image, "bundle without image falls back to first component")
		assert.Equal(t, map[uuid.UUID]int{tray.ID: 2, bowl.ID: 1}, plan.Demand)
	})

	t.Run("made to order never needs stock", func(t *testing.T) {
		plan, err := planCart([]structs.CartLine{{ProductID: &custom.ID, Quantity: 3}}, products, bundles)
		require.NoError(t, err)
		assert.Empty(t, plan.Demand)
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		_, err := planCart([]structs.CartLine{{BundleID: &bundle.ID, Quantity: 3}}, products, bundles)
		require.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Sheesham Bowl")
	})

	t.Run("unknown or inactive products are unavailable", func(t *testing.T) {
		missing := uuid.New()
		_, err := planCart([]structs.CartLine{{ProductID: &missing, Quantity: 1}}, products, bundles)
		assert.ErrorIs(t, err, ErrProductUnavailable)

		bowl.IsActive = false
		defer func() { bowl.IsActive = true }()
		_, err = planCart([]structs.CartLine{{BundleID: &bundle.ID, Quantity: 1}}, products, bundles)
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("line needs a reference and a positive quantity", func(t *testing.T) {
		_, err := planCart([]structs.CartLine{{Quantity: 1}}, products, bundles)
		var ve *lib.ValidationError
		assert.ErrorAs(t, err, &ve)

		_, err = planCart([]structs.CartLine{{ProductID: &tray.ID, Quantity: 0}}, products, bundles)
		assert.ErrorAs(t, err, &ve)
	})
}

func TestRestockDemand(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	bundle := &tables.ProductBundle{ID: uuid.New(), ProductIDs: []uuid.UUID{a, b}}
	gone := uuid.New()

	items := []tables.OrderItem{
		{ProductID: &a, Quantity: 2},
		{BundleID: &bundle.ID, Quantity: 1},
		{BundleID: &gone, Quantity: 4},
	}
	demand := restockDemand(items, map[uuid.UUID]*tables.ProductBundle{bundle.ID: bundle})
	assert.Equal(t, map[uuid.UUID]int{a: 3, b: 1}, demand)
}

func TestPaymentMethodEnabled(t *testing.T) {
	s := testSettings()
	assert.True(t, paymentMethodEnabled("cod", s))
	assert.False(t, paymentMethodEnabled("upi", s))
	assert.False(t, paymentMethodEnabled("razorpay", s))
	assert.False(t, paymentMethodEnabled("bitcoin", s))

	s.UPIEnabled = true
	assert.True(t, paymentMethodEnabled("upi", s))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrInsufficientStock))
	assert.True(t, IsClientError(ErrGiftCardConflict))
	assert.True(t, IsClientError(ErrOrderNotFound))
	assert.True(t, IsClientError(ErrTrackingRequired))
	assert.True(t, IsClientError(&TransitionError{From: tables.OrderStatusDelivered, To: tables.OrderStatusPending}))
	assert.True(t, IsClientError(lib.NewValidationError("price", "bad")))
	assert.False(t, IsClientError(assert.AnError))
}
