package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"debt-planner/domain"
)

// ScheduleMaxMonths caps a single-debt schedule at 30 years.
const ScheduleMaxMonths = 360

// BuildSchedule projects one debt under a fixed monthly payment. It has no
// notion of other debts, released minimums or fundings; it is a what-if view
// and deliberately independent from Simulate.
func BuildSchedule(balance, annualRate, payment decimal.Decimal, start domain.Month) ([]domain.AmortizationEntry, error) {
	first, err := MonthlyInterest(balance, annualRate)
	if err != nil {
		return nil, err
	}
	if payment.IsNegative() {
		return nil, fmt.Errorf("%w: negative payment %s", ErrInvalidDebtParameters, payment)
	}
	entries := []domain.AmortizationEntry{}
	if isPaidOff(balance) {
		return entries, nil
	}
	if payment.LessThanOrEqual(first) {
		return nil, fmt.Errorf("%w: payment %s does not exceed monthly interest %s", ErrInvalidDebtParameters, payment, first)
	}

	for m := 0; m < ScheduleMaxMonths; m++ {
		interest := accrue(balance, annualRate)
		pay := decimal.Min(payment, balance.Add(interest))
		principal := pay.Sub(interest)
		ending := decimal.Max(decimal.Zero, balance.Sub(principal))

		entries = append(entries, domain.AmortizationEntry{
			Month:           m,
			Date:            start.AddMonths(m).Time(),
			StartingBalance: balance,
			Payment:         pay,
			Principal:       principal,
			Interest:        interest,
			EndingBalance:   ending,
		})
		if isPaidOff(ending) {
			break
		}
		balance = ending
	}
	return entries, nil
}
