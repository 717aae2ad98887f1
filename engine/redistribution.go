package engine

import (
	"github.com/shopspring/decimal"

	"debt-planner/domain"
)

// payoffThreshold is the balance at or below which a debt counts as repaid.
var payoffThreshold = decimal.New(1, -2)

func isPaidOff(balance decimal.Decimal) bool {
	return balance.LessThanOrEqual(payoffThreshold)
}

// redistributionTracker detects payoffs at month end and keeps the audit
// trail of released minimum payments. The trail is informational only.
type redistributionTracker struct {
	strategy Strategy
	history  map[string][]domain.Redistribution
}

func newRedistributionTracker(strategy Strategy) *redistributionTracker {
	return &redistributionTracker{
		strategy: strategy,
		history:  make(map[string][]domain.Redistribution),
	}
}

// settle removes repaid debts from natural, writes their residual off to zero
// and returns the survivors, the ids paid this month and the total minimum
// released for next month.
func (t *redistributionTracker) settle(
	month int,
	date domain.Month,
	natural []string,
	balances map[string]decimal.Decimal,
	debts map[string]domain.Debt,
) (remaining, paid []string, released decimal.Decimal) {
	released = decimal.Zero
	for _, id := range natural {
		if isPaidOff(balances[id]) {
			balances[id] = decimal.Zero
			paid = append(paid, id)
			released = released.Add(debts[id].MinimumPayment)
			continue
		}
		remaining = append(remaining, id)
	}
	if len(paid) == 0 || len(remaining) == 0 {
		return remaining, paid, released
	}

	recipient := Rank(t.strategy, candidates(remaining, balances, debts))[0]
	for _, id := range paid {
		t.history[recipient] = append(t.history[recipient], domain.Redistribution{
			FromDebtID: id,
			Amount:     debts[id].MinimumPayment,
			Month:      month + 1,
			Date:       date.AddMonths(1),
		})
	}
	return remaining, paid, released
}

// historyFor never returns nil so results always carry a sequence.
func (t *redistributionTracker) historyFor(id string) []domain.Redistribution {
	h := t.history[id]
	if h == nil {
		return []domain.Redistribution{}
	}
	return h
}

func candidates(ids []string, balances map[string]decimal.Decimal, debts map[string]domain.Debt) []Candidate {
	out := make([]Candidate, len(ids))
	for i, id := range ids {
		out[i] = Candidate{ID: id, Balance: balances[id], AnnualRate: debts[id].AnnualRate}
	}
	return out
}
