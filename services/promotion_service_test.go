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

func TestValidateGiftCard(t *testing.T) {
	card := &tables.GiftCard{Code: "WOOD-1", CurrentBalance: dec("500"), IsActive: true}

	t.Run("discount capped at balance", func(t *testing.T) {
		v := validateGiftCard("WOOD-1", card, dec("1200"), testNow)
		assert.True(t, v.Valid)
		assert.True(t, dec("500").Equal(v.Discount))
		assert.True(t, dec("500").Equal(v.AvailableBalance))
	})

	t.Run("discount capped at amount", func(t *testing.T) {
		v := validateGiftCard("WOOD-1", card, dec("320"), testNow)
		assert.True(t, dec("320").Equal(v.Discount))
	})

	t.Run("unknown code", func(t *testing.T) {
		v := validateGiftCard("NOPE", nil, dec("320"), testNow)
		assert.False(t, v.Valid)
		assert.Equal(t, ErrGiftCardNotFound.Error(), v.Message)
		assert.True(t, v.AvailableBalance.IsZero())
	})

	t.Run("inactive keeps balance visible", func(t *testing.T) {
		off := *card
		off.IsActive = false
		v := validateGiftCard("WOOD-1", &off, dec("320"), testNow)
		assert.False(t, v.Valid)
		assert.True(t, v.Discount.IsZero())
		assert.True(t, dec("500").Equal(v.AvailableBalance))
	})
}

func TestApplySaleRequest(t *testing.T) {
	id := uuid.New()
	base := func() *structs.SaleRequest {
		return &structs.SaleRequest{
			Name:               " Diwali ",
			DiscountPercentage: dec("15"),
			SaleType:           tables.SaleTypeProducts,
			TargetCategory:     "ignored",
			TargetProductIDs:   []uuid.UUID{id, id, uuid.Nil},
			StartDate:          testNow,
			EndDate:            testNow.Add(48 * time.Hour),
			IsActive:           true,
		}
	}

	var s tables.ScheduledSale
	require.NoError(t, applySaleRequest(&s, base()))
	assert.Equal(t, "Diwali", s.Name)
	assert.Equal(t, []uuid.UUID{id}, s.TargetProductIDs)
	assert.Empty(t, s.TargetCategory, "only the target matching the sale type is kept")

	tests := []struct {
		name   string
		mutate func(r *structs.SaleRequest)
		field  string
	}{
		{"zero discount", func(r *structs.SaleRequest) { r.DiscountPercentage = dec("0") }, "discount_percentage"},
		{"discount over 100", func(r *structs.SaleRequest) { r.DiscountPercentage = dec("100.5") }, "discount_percentage"},
		{"end before start", func(r *structs.SaleRequest) { r.EndDate = r.StartDate }, "end_date"},
		{"category missing", func(r *structs.SaleRequest) {
			r.SaleType = tables.SaleTypeCategory
			r.TargetCategory = "  "
		}, "target_category"},
		{"products missing", func(r *structs.SaleRequest) { r.TargetProductIDs = []uuid.UUID{uuid.Nil} }, "target_product_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)
			var ve *lib.ValidationError
			require.ErrorAs(t, applySaleRequest(&tables.ScheduledSale{}, req), &ve)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestApplyBannerRequest(t *testing.T) {
	var b tables.PromotionalBanner
	require.NoError(t, applyBannerRequest(&b, &structs.BannerRequest{Message: " Free shipping ", TextColor: "#000000"}))
	assert.Equal(t, "Free shipping", b.Message)
	assert.Equal(t, "#3d2b1f", b.BackgroundColor)
	assert.Equal(t, "#000000", b.TextColor)

	start := testNow
	err := applyBannerRequest(&b, &structs.BannerRequest{Message: "x", StartDate: &start, EndDate: &start})
	assert.Error(t, err)
}
