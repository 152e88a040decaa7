package repository

import (
	"database/sql"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

// Money columns hold integer minor units on every driver, so relative
// updates and sums are exact integer arithmetic in the database.

// minor converts an amount to the stored integer. Callers validate the
// scale with models.CheckAmount first.
func minor(d decimal.Decimal) int64 {
	return d.Shift(models.AmountScale).Round(0).IntPart()
}

// major scans a stored integer (or an integer sum) back into dst.
func major(dst *decimal.Decimal) sql.Scanner {
	return minorUnits{dst: dst}
}

type minorUnits struct {
	dst *decimal.Decimal
}

func (m minorUnits) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	*m.dst = d.Shift(-models.AmountScale)
	return nil
}
