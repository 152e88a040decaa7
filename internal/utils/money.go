package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount using the conventions of the currency code.
// Unknown codes fall back to a plain decimal followed by the code.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}
