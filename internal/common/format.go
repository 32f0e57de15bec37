package common

import (
	"fmt"
	"strconv"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders a monetary value with the currency's symbol,
// thousands separators and exactly two decimal places. These strings are
// part of the report contract, so UI snapshot tests pin them verbatim.
func FormatMoney(v float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	// money.New guarantees a non-nil currency even for unknown codes.
	cur := money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatPercent renders a percentage with one decimal place and a
// trailing percent sign.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatUnits renders a unit count without trailing zeros.
func FormatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
