package service

import (
	"errors"
	"fmt"
	"time"

	"debt-planner/domain"
)

// ErrInvalidRequest marks request-level validation failures. Per-debt
// problems are reported by the engine instead.
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func validateDebts(debts []domain.Debt, limits Limits) error {
	if len(debts) == 0 {
		return invalidf("no debts provided")
	}
	if len(debts) > limits.MaxDebts {
		return invalidf("number of debts exceeds the maximum of %d", limits.MaxDebts)
	}

	ids := make(map[string]bool, len(debts))
	for _, d := range debts {
		if d.ID == "" {
			return invalidf("debt id must not be empty")
		}
		if ids[d.ID] {
			return invalidf("duplicate debt id: %s", d.ID)
		}
		ids[d.ID] = true

		if d.Balance.GreaterThan(limits.MaxDebtAmount) {
			return invalidf("balance of %s exceeds the maximum of %s", d.ID, limits.MaxDebtAmount)
		}
		if d.AnnualRate.GreaterThan(limits.MaxInterestRate) {
			return invalidf("interest rate of %s exceeds the maximum of %s%%", d.ID, limits.MaxInterestRate)
		}
	}
	return nil
}

// startTime picks the simulation clock: the requested start month or now.
func startTime(start *domain.Month, clock func() time.Time) time.Time {
	if start != nil && !start.IsZero() {
		return start.Time()
	}
	return clock()
}
