package services

import (
	"testing"
	"time"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testSettings() *structs.StoreSettings {
	return &structs.StoreSettings{
		GSTPercentage:               dec("18"),
		DomesticShippingCharge:      dec("99"),
		InternationalShippingCharge: dec("999"),
		FreeShippingThreshold:       dec("2000"),
		CODEnabled:                  true,
	}
}

func line(price string, qty int) structs.QuoteLine {
	id := uuid.New()
	return structs.QuoteLine{ProductID: &id, Name: "Walnut tray", UnitPrice: dec(price), Quantity: qty}
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCalculateQuote(t *testing.T) {
	future := testNow.Add(24 * time.Hour)

	tests := []struct {
		name         string
		lines        []structs.QuoteLine
		country      string
		code         string
		card         *tables.GiftCard
		wantSubtotal string
		wantShipping string
		wantTax      string
		wantDiscount string
		wantTotal    string
		wantMessage  string
	}{
		{
			name:         "domestic below threshold pays shipping",
			lines:        []structs.QuoteLine{line("900", 2)},
			country:      "India",
			wantSubtotal: "1800", wantShipping: "99", wantTax: "324", wantDiscount: "0", wantTotal: "2223",
		},
		{
			name:         "domestic at or above threshold ships free",
			lines:        []structs.QuoteLine{line("2500", 1)},
			country:      " india ",
			wantSubtotal: "2500", wantShipping: "0", wantTax: "450", wantDiscount: "0", wantTotal: "2950",
		},
		{
			name:         "exactly at threshold ships free",
			lines:        []structs.QuoteLine{line("1000", 2)},
			country:      "India",
			wantSubtotal: "2000", wantShipping: "0", wantTax: "360", wantDiscount: "0", wantTotal: "2360",
		},
		{
			name:    "international with gift card",
			lines:   []structs.QuoteLine{line("1500", 2)},
			country: "Germany",
			code:    "WZGC-AAAA-BBBB-CCCC",
			card:    &tables.GiftCard{IsActive: true, CurrentBalance: dec("500"), InitialBalance: dec("500")},
			wantSubtotal: "3000", wantShipping: "999", wantTax: "540", wantDiscount: "500", wantTotal: "4039",
		},
		{
			name:    "gift card larger than subtotal is capped",
			lines:   []structs.QuoteLine{line("1000", 1)},
			country: "India",
			code:    "WZGC-AAAA-BBBB-CCCC",
			card:    &tables.GiftCard{IsActive: true, CurrentBalance: dec("5000"), ExpiresAt: &future},
			wantSubtotal: "1000", wantShipping: "99", wantTax: "180", wantDiscount: "1000", wantTotal: "279",
		},
		{
			name:    "partial gift card",
			lines:   []structs.QuoteLine{line("1000", 1)},
			country: "India",
			code:    "WZGC-AAAA-BBBB-CCCC",
			card:    &tables.GiftCard{IsActive: true, CurrentBalance: dec("200")},
			wantSubtotal: "1000", wantShipping: "99", wantTax: "180", wantDiscount: "200", wantTotal: "1079",
		},
		{
			name:    "unknown gift card gives a message, not a failure",
			lines:   []structs.QuoteLine{line("1000", 1)},
			country: "India",
			code:    "WZGC-NOPE-NOPE-NOPE",
			wantSubtotal: "1000", wantShipping: "99", wantTax: "180", wantDiscount: "0", wantTotal: "1279",
			wantMessage: ErrGiftCardNotFound.Error(),
		},
		{
			name:    "expired gift card",
			lines:   []structs.QuoteLine{line("1000", 1)},
			country: "India",
			code:    "WZGC-AAAA-BBBB-CCCC",
			card:    &tables.GiftCard{IsActive: true, CurrentBalance: dec("200"), ExpiresAt: &testNow},
			wantSubtotal: "1000", wantShipping: "99", wantTax: "180", wantDiscount: "0", wantTotal: "1279",
			wantMessage: ErrGiftCardExpired.Error(),
		},
		{
			name:         "tax rounds half up",
			lines:        []structs.QuoteLine{line("25", 1)},
			country:      "India",
			wantSubtotal: "25", wantShipping: "99", wantTax: "5", wantDiscount: "0", wantTotal: "129",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CalculateQuote(QuoteInput{
				Lines:        tt.lines,
				Country:      tt.country,
				Settings:     testSettings(),
				GiftCardCode: tt.code,
				GiftCard:     tt.card,
				Now:          testNow,
			})

			assert.True(t, dec(tt.wantSubtotal).Equal(q.Subtotal), "subtotal %s", q.Subtotal)
			assert.True(t, dec(tt.wantShipping).Equal(q.ShippingCost), "shipping %s", q.ShippingCost)
			assert.True(t, dec(tt.wantTax).Equal(q.Tax), "tax %s", q.Tax)
			assert.True(t, dec(tt.wantDiscount).Equal(q.GiftCardDiscount), "discount %s", q.GiftCardDiscount)
			assert.True(t, dec(tt.wantTotal).Equal(q.GrandTotal), "total %s", q.GrandTotal)
			assert.Equal(t, tt.wantMessage, q.GiftCardMessage)
		})
	}
}

func TestCalculateQuoteLineTotals(t *testing.T) {
	q := CalculateQuote(QuoteInput{
		Lines:    []structs.QuoteLine{line("450", 3), line("120", 1)},
		Country:  "India",
		Settings: testSettings(),
		Now:      testNow,
	})

	require.Len(t, q.Lines, 2)
	assert.True(t, dec("1350").Equal(q.Lines[0].LineTotal))
	assert.True(t, dec("120").Equal(q.Lines[1].LineTotal))
	assert.True(t, dec("1470").Equal(q.Subtotal))
	assert.False(t, q.IsInternational)
}

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		price, discount, want string
	}{
		{"1000", "0", "1000"},
		{"1000", "15", "850"},
		{"999", "10", "899"},    // 899.1
		{"1005", "50", "503"},   // 502.5 rounds up
		{"1000", "150", "0"},    // clamped to 100%
		{"1299.5", "0", "1300"}, // undiscounted prices still round
	}
	for _, tt := range tests {
		got := EffectivePrice(dec(tt.price), dec(tt.discount))
		assert.True(t, dec(tt.want).Equal(got), "%s at %s%% = %s", tt.price, tt.discount, got)
	}
}

func TestIsInternational(t *testing.T) {
	assert.False(t, IsInternational("India"))
	assert.False(t, IsInternational("  INDIA "))
	assert.True(t, IsInternational("Indonesia"))
	assert.True(t, IsInternational(""))
}

