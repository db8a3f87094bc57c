package lib

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupee = accounting.Accounting{Symbol: "₹", Precision: 0, Thousand: ",", Decimal: "."}

// RoundRupees rounds half away from zero to whole rupees.
func RoundRupees(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// FormatINR renders an amount for customer-facing text, e.g. ₹2,223.
func FormatINR(d decimal.Decimal) string {
	return rupee.FormatMoneyInt(int(d.Round(0).IntPart()))
}
