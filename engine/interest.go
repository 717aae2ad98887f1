package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// monthlyRateDivisor turns an annual percentage into a monthly fraction.
var monthlyRateDivisor = decimal.NewFromInt(1200)

// MonthlyInterest returns one month of simple interest on balance, rounded to
// two places.
func MonthlyInterest(balance, annualRate decimal.Decimal) (decimal.Decimal, error) {
	if balance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative balance %s", ErrInvalidDebtParameters, balance)
	}
	if annualRate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative annual rate %s", ErrInvalidDebtParameters, annualRate)
	}
	return accrue(balance, annualRate), nil
}

// accrue skips validation; callers have already screened the inputs.
func accrue(balance, annualRate decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRate).DivRound(monthlyRateDivisor, 2)
}
