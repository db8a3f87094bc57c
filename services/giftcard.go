package services

import (
	"errors"
	"time"
	"woodzire_server/structs/tables"

	"github.com/shopspring/decimal"
)

var (
	ErrGiftCardNotFound   = errors.New("gift card not found")
	ErrGiftCardInactive   = errors.New("gift card is not active")
	ErrGiftCardExpired    = errors.New("gift card has expired")
	ErrGiftCardUsageLimit = errors.New("gift card usage limit reached")
	ErrGiftCardEmpty      = errors.New("gift card has no balance left")
	ErrGiftCardConflict   = errors.New("gift card balance changed, please retry")
)

// CheckRedeemable reports why a card cannot be used right now, if anything.
func CheckRedeemable(card *tables.GiftCard, now time.Time) error {
	switch {
	case card == nil:
		return ErrGiftCardNotFound
	case !card.IsActive:
		return ErrGiftCardInactive
	case card.ExpiresAt != nil && !now.Before(*card.ExpiresAt):
		return ErrGiftCardExpired
	case card.UsageLimit != nil && card.UsageCount >= *card.UsageLimit:
		return ErrGiftCardUsageLimit
	case card.CurrentBalance.LessThanOrEqual(decimal.Zero):
		return ErrGiftCardEmpty
	}
	return nil
}

// RedeemableAmount is min(balance, amount), never negative.
func RedeemableAmount(card *tables.GiftCard, amount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, decimal.Min(card.CurrentBalance, amount))
}

func isGiftCardError(err error) bool {
	for _, target := range []error{
		ErrGiftCardNotFound,
		ErrGiftCardInactive,
		ErrGiftCardExpired,
		ErrGiftCardUsageLimit,
		ErrGiftCardEmpty,
		ErrGiftCardConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RefundGiftCard credits amount back to card without lifting the balance
// past its initial value, and gives back the use the redemption consumed.
// It returns what was actually credited.
func RefundGiftCard(card *tables.GiftCard, amount decimal.Decimal, now time.Time) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	balance := decimal.Min(card.InitialBalance, card.CurrentBalance.Add(amount))
	credited := balance.Sub(card.CurrentBalance)
	if credited.IsNegative() {
		credited = decimal.Zero
		balance = card.CurrentBalance
	}
	card.CurrentBalance = balance
	if card.UsageCount > 0 {
		card.UsageCount--
	}
	card.UpdatedAt = now
	return credited
}
