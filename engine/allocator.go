package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"debt-planner/domain"
)

// monthAllocation is the allocator's output for one month.
type monthAllocation struct {
	byDebt    map[string]domain.Allocation
	allocated decimal.Decimal
	// residual is money no active debt could absorb. It is only non-zero in
	// the month the last debts are paid off.
	residual decimal.Decimal
}

// allocate splits available funds across the active debts.
//
// natural is the active set in input order and drives the minimum pass.
// priority is the same set ordered by strategy for this month and drives the
// extra pass. owed is balance plus this month's interest. pool is the sum of
// minimums released by debts paid off in earlier months; that much of the
// surplus, plus any minimum left unused by a debt that pays off now, is
// booked as redistributed rather than extra.
func allocate(
	natural, priority []string,
	owed, minimums map[string]decimal.Decimal,
	available, pool decimal.Decimal,
) (monthAllocation, error) {
	out := monthAllocation{byDebt: make(map[string]domain.Allocation, len(natural))}
	remaining := available
	outstanding := make(map[string]decimal.Decimal, len(natural))
	unused := decimal.Zero

	for _, id := range natural {
		due := owed[id]
		pay := decimal.Min(minimums[id], due)
		if pay.GreaterThan(remaining) {
			return monthAllocation{}, fmt.Errorf("minimum payment of %q (%s) exceeds remaining funds %s", id, pay, remaining)
		}
		remaining = remaining.Sub(pay)
		unused = unused.Add(minimums[id].Sub(pay))
		out.byDebt[id] = domain.Allocation{Base: pay}
		outstanding[id] = due.Sub(pay)
	}

	redistributable := decimal.Min(remaining, pool.Add(unused))
	for _, id := range priority {
		if !remaining.IsPositive() {
			break
		}
		need := outstanding[id]
		if !need.IsPositive() {
			continue
		}
		pay := decimal.Min(need, remaining)
		fromPool := decimal.Min(pay, redistributable)

		a := out.byDebt[id]
		a.Redistributed = a.Redistributed.Add(fromPool)
		a.Extra = a.Extra.Add(pay.Sub(fromPool))
		out.byDebt[id] = a

		redistributable = redistributable.Sub(fromPool)
		remaining = remaining.Sub(pay)
		outstanding[id] = need.Sub(pay)
	}

	out.allocated = available.Sub(remaining)
	out.residual = remaining
	return out, nil
}
