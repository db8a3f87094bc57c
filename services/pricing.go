package services

import (
	"strings"
	"time"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IsInternational reports whether country is anything other than India.
func IsInternational(country string) bool {
	return !strings.EqualFold(strings.TrimSpace(country), "India")
}

// EffectivePrice applies a percentage discount and rounds to whole rupees.
func EffectivePrice(price, discountPercentage decimal.Decimal) decimal.Decimal {
	if discountPercentage.LessThanOrEqual(decimal.Zero) {
		return lib.RoundRupees(price)
	}
	if discountPercentage.GreaterThan(hundred) {
		discountPercentage = hundred
	}
	factor := hundred.Sub(discountPercentage).Div(hundred)
	return lib.RoundRupees(price.Mul(factor))
}

// ShippingCost picks the flat charge for the destination. Domestic orders at
// or above the free-shipping threshold ship free.
func ShippingCost(subtotal decimal.Decimal, international bool, s *structs.StoreSettings) decimal.Decimal {
	if international {
		return s.InternationalShippingCharge
	}
	if subtotal.GreaterThanOrEqual(s.FreeShippingThreshold) {
		return decimal.Zero
	}
	return s.DomesticShippingCharge
}

func Tax(subtotal, gstPercentage decimal.Decimal) decimal.Decimal {
	return lib.RoundRupees(subtotal.Mul(gstPercentage).Div(hundred))
}

// QuoteInput is everything a quote depends on. GiftCard is the card resolved
// from GiftCardCode, or nil when the lookup found nothing.
type QuoteInput struct {
	Lines        []structs.QuoteLine
	Country      string
	Settings     *structs.StoreSettings
	GiftCardCode string
	GiftCard     *tables.GiftCard
	Now          time.Time
}

// CalculateQuote prices a cart. It never fails: a gift card that does not
// validate yields a zero discount and a message on the quote.
func CalculateQuote(in QuoteInput) *structs.Quote {
	quote := &structs.Quote{
		Lines:             make([]structs.QuoteLine, 0, len(in.Lines)),
		Subtotal:          decimal.Zero,
		GiftCardDiscount:  decimal.Zero,
		IsInternational:   IsInternational(in.Country),
		FreeShippingAbove: in.Settings.FreeShippingThreshold,
	}

	for _, line := range in.Lines {
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		quote.Subtotal = quote.Subtotal.Add(line.LineTotal)
		quote.Lines = append(quote.Lines, line)
	}

	quote.ShippingCost = ShippingCost(quote.Subtotal, quote.IsInternational, in.Settings)
	quote.Tax = Tax(quote.Subtotal, in.Settings.GSTPercentage)

	if in.GiftCardCode != "" {
		discount, err := giftCardDiscount(in.GiftCard, quote.Subtotal, in.Now)
		if err != nil {
			quote.GiftCardMessage = err.Error()
		} else {
			quote.GiftCardDiscount = discount
		}
	}

	discounted := decimal.Max(decimal.Zero, quote.Subtotal.Sub(quote.GiftCardDiscount))
	quote.GrandTotal = discounted.Add(quote.ShippingCost).Add(quote.Tax)
	return quote
}

func giftCardDiscount(card *tables.GiftCard, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if card == nil {
		return decimal.Zero, ErrGiftCardNotFound
	}
	if err := CheckRedeemable(card, now); err != nil {
		return decimal.Zero, err
	}
	return RedeemableAmount(card, subtotal), nil
}
