package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits an amount may carry.
// Amounts are stored as integer counts of 10^-AmountScale units.
const AmountScale = 2

// MaxAmount bounds the magnitude of any single amount so that stored
// balances and their sums stay inside a signed 64-bit count of minor units.
var MaxAmount = decimal.New(1, 15)

// CheckAmount returns ErrValidation when d cannot be stored exactly.
func CheckAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", ErrValidation, field, AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("%w: %s is too large", ErrValidation, field)
	}
	return nil
}
