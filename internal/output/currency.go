package output

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var cny = *money.New(0, money.CNY).Currency()

// FormatCurrency renders an amount in yuan with grouping, rounded to the fen.
func FormatCurrency(amount decimal.Decimal) string {
	return cny.Formatter().Format(amount.Shift(int32(cny.Fraction)).Round(0).IntPart())
}

// FormatPercentage formats a fraction (0.07) as a percentage (7.00%)
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Shift(2).StringFixed(2) + "%"
}

// FormatAmount renders an amount with two decimals and no currency mark
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
