package services

import (
	"testing"
	"time"
	"woodzire_server/structs/tables"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckRedeemable(t *testing.T) {
	past, future := testNow.Add(-time.Hour), testNow.Add(time.Hour)
	card := func() *tables.GiftCard {
		return &tables.GiftCard{Code: "WOOD-1", CurrentBalance: dec("500"), IsActive: true, ExpiresAt: &future}
	}

	tests := []struct {
		name   string
		mutate func(c *tables.GiftCard) *tables.GiftCard
		want   error
	}{
		{"usable", func(c *tables.GiftCard) *tables.GiftCard { return c }, nil},
		{"no expiry", func(c *tables.GiftCard) *tables.GiftCard { c.ExpiresAt = nil; return c }, nil},
		{"under usage limit", func(c *tables.GiftCard) *tables.GiftCard { c.UsageLimit = ptr(2); c.UsageCount = 1; return c }, nil},
		{"missing", func(*tables.GiftCard) *tables.GiftCard { return nil }, ErrGiftCardNotFound},
		{"inactive", func(c *tables.GiftCard) *tables.GiftCard { c.IsActive = false; return c }, ErrGiftCardInactive},
		{"expired", func(c *tables.GiftCard) *tables.GiftCard { c.ExpiresAt = &past; return c }, ErrGiftCardExpired},
		{"usage limit", func(c *tables.GiftCard) *tables.GiftCard { c.UsageLimit = ptr(2); c.UsageCount = 2; return c }, ErrGiftCardUsageLimit},
		{"empty", func(c *tables.GiftCard) *tables.GiftCard { c.CurrentBalance = dec("0"); return c }, ErrGiftCardEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRedeemable(tt.mutate(card()), testNow)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, isGiftCardError(err))
		})
	}
}

func TestRedeemableAmount(t *testing.T) {
	card := &tables.GiftCard{CurrentBalance: dec("300")}
	assert.True(t, dec("300").Equal(RedeemableAmount(card, dec("1000"))))
	assert.True(t, dec("250").Equal(RedeemableAmount(card, dec("250"))))
	assert.True(t, decimal.Zero.Equal(RedeemableAmount(card, dec("-5"))))
}

func TestRefundGiftCard(t *testing.T) {
	tests := []struct {
		name         string
		initial      string
		balance      string
		usageCount   int
		amount       string
		wantCredited string
		wantBalance  string
		wantUsage    int
	}{
		{"full refund", "1000", "400", 1, "600", "600", "1000", 0},
		{"capped at initial balance", "1000", "900", 2, "600", "100", "1000", 1},
		{"already full", "1000", "1000", 1, "250", "0", "1000", 0},
		{"usage never below zero", "500", "0", 0, "500", "500", "500", 0},
		{"zero amount is a no-op", "500", "200", 1, "0", "0", "200", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &tables.GiftCard{
				InitialBalance: dec(tt.initial),
				CurrentBalance: dec(tt.balance),
				UsageCount:     tt.usageCount,
			}
			credited := RefundGiftCard(card, dec(tt.amount), testNow)

			assert.True(t, dec(tt.wantCredited).Equal(credited), "credited %s", credited)
			assert.True(t, dec(tt.wantBalance).Equal(card.CurrentBalance), "balance %s", card.CurrentBalance)
			assert.Equal(t, tt.wantUsage, card.UsageCount)
		})
	}
}

func TestRefundThenRedeemRoundTrip(t *testing.T) {
	card := &tables.GiftCard{InitialBalance: dec("1000"), CurrentBalance: dec("1000"), IsActive: true}

	charge := RedeemableAmount(card, dec("700"))
	card.CurrentBalance = card.CurrentBalance.Sub(charge)
	card.UsageCount++

	credited := RefundGiftCard(card, charge, testNow)
	assert.True(t, charge.Equal(credited))
	assert.True(t, dec("1000").Equal(card.CurrentBalance))
	assert.Zero(t, card.UsageCount)
	assert.Equal(t, testNow, card.UpdatedAt)
}
