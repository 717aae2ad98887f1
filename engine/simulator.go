// Package engine simulates debt payoff month by month: interest accrual,
// minimum and prioritized extra payments, one-time fundings and the cascade
// of freed minimum payments onto the debts that remain.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"debt-planner/domain"
)

// MaxMonths caps a simulation at 100 years.
const MaxMonths = 1200

// Input is everything a run depends on. Now is only used to pick the start
// month; the engine never reads the clock itself.
type Input struct {
	Debts    []domain.Debt
	Budget   decimal.Decimal
	Strategy domain.StrategySpec
	Fundings []domain.OneTimeFunding
	Now      time.Time
}

// MinimumTotal returns the sum of minimum payments of the debts that would
// enter a run. Settled debts and debts that fail validation are skipped.
func MinimumTotal(debts []domain.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if isPaidOff(d.Balance) || checkDebt(d) != nil {
			continue
		}
		total = total.Add(d.MinimumPayment)
	}
	return total
}

// Simulate runs the payoff loop and returns one result per input debt.
//
// Invalid debts are rejected individually and left out of the run; only a
// batch consisting of a single invalid debt fails outright. A budget below
// the sum of minimums yields a plan flagged InsufficientBudget. Debts still
// open at the month cap are reported unreachable. If one of them would have
// amortized on its own minimum, the plan is returned together with an error
// wrapping ErrUnreachablePayoff.
func Simulate(in Input) (domain.Plan, error) {
	strategy, err := NewStrategy(in.Strategy)
	if err != nil {
		return domain.Plan{}, err
	}
	if in.Budget.IsNegative() {
		return domain.Plan{}, fmt.Errorf("%w: negative budget %s", ErrInvalidBudget, in.Budget)
	}
	start := domain.MonthOf(in.Now)
	fundings, err := NewFundingSchedule(in.Fundings, start)
	if err != nil {
		return domain.Plan{}, err
	}
	accepted, rejected, err := screen(in.Debts, strategy)
	if err != nil {
		return domain.Plan{}, err
	}

	plan := domain.Plan{
		Strategy:      strategy.Kind(),
		StartDate:     start.Time(),
		Budget:        in.Budget,
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Results:       make(map[string]domain.PayoffResult, len(in.Debts)),
		Rejected:      []domain.DebtRejection{},
	}
	capDate := start.AddMonths(MaxMonths).Time()
	for _, r := range rejected {
		plan.Rejected = append(plan.Rejected, domain.DebtRejection{DebtID: r.DebtID, Reason: r.Reason})
		plan.Results[r.DebtID] = sentinelResult(r.DebtID, domain.StatusInvalid, capDate, r.Reason)
	}

	var active []domain.Debt
	for _, d := range accepted {
		if isPaidOff(d.Balance) {
			plan.Results[d.ID] = domain.PayoffResult{
				DebtID:                d.ID,
				Status:                domain.StatusPaid,
				TotalInterest:         decimal.Zero,
				TotalPaid:             decimal.Zero,
				PayoffDate:            start.Time(),
				RedistributionHistory: []domain.Redistribution{},
			}
			continue
		}
		active = append(active, d)
	}

	plan.RequiredMinimum = MinimumTotal(active)
	if in.Budget.LessThan(plan.RequiredMinimum) {
		plan.InsufficientBudget = true
		for _, d := range active {
			plan.Results[d.ID] = sentinelResult(d.ID, domain.StatusUnreachable, capDate, "budget does not cover minimum payments")
		}
		plan.Months = MaxMonths
		return plan, nil
	}

	sim := newSimulation(active, in.Budget, strategy, fundings, start)
	for month := 0; month < MaxMonths && len(sim.natural) > 0; month++ {
		if err := sim.step(month); err != nil {
			return domain.Plan{}, err
		}
	}
	sim.collect(&plan, capDate)

	// A debt that gets at least its minimum every month and amortizes on that
	// minimum alone cannot still be open at the cap.
	if stuck := sim.amortizingOpenDebts(); len(stuck) > 0 {
		return plan, fmt.Errorf("%w: %v still open after %d months", ErrUnreachablePayoff, stuck, MaxMonths)
	}
	return plan, nil
}

func sentinelResult(id string, status domain.PayoffStatus, capDate time.Time, reason string) domain.PayoffResult {
	return domain.PayoffResult{
		DebtID:                id,
		Status:                status,
		Months:                MaxMonths,
		TotalInterest:         decimal.Zero,
		TotalPaid:             decimal.Zero,
		PayoffDate:            capDate,
		RedistributionHistory: []domain.Redistribution{},
		Reason:                reason,
	}
}

// screen checks ids and per-debt parameters.
func screen(debts []domain.Debt, strategy Strategy) (accepted []domain.Debt, rejected []*DebtError, err error) {
	seen := make(map[string]bool, len(debts))
	for _, d := range debts {
		if d.ID == "" {
			return nil, nil, fmt.Errorf("%w: debt without id", ErrInvalidDebtParameters)
		}
		if seen[d.ID] {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateDebt, d.ID)
		}
		seen[d.ID] = true
	}
	if custom, ok := strategy.(customOrder); ok {
		if unknown := custom.unknownIDs(seen); len(unknown) > 0 {
			return nil, nil, fmt.Errorf("%w: custom order names unknown debts %v", ErrInvalidStrategy, unknown)
		}
	}

	for _, d := range debts {
		if derr := checkDebt(d); derr != nil {
			if len(debts) == 1 {
				return nil, nil, derr
			}
			rejected = append(rejected, derr)
			continue
		}
		accepted = append(accepted, d)
	}
	return accepted, rejected, nil
}

// checkDebt rejects debts whose minimum can never reduce the balance. A debt
// that amortizes slowly stays valid: extra budget may still retire it, and at
// worst it ends at the cap as unreachable.
func checkDebt(d domain.Debt) *DebtError {
	switch {
	case d.Balance.IsNegative():
		return invalidDebt(d.ID, "negative balance")
	case d.AnnualRate.IsNegative():
		return invalidDebt(d.ID, "negative annual rate")
	case d.MinimumPayment.IsNegative():
		return invalidDebt(d.ID, "negative minimum payment")
	}
	if isPaidOff(d.Balance) {
		return nil
	}
	interest := accrue(d.Balance, d.AnnualRate)
	if d.MinimumPayment.LessThanOrEqual(interest) {
		return invalidDebt(d.ID, fmt.Sprintf("minimum payment %s does not exceed monthly interest %s", d.MinimumPayment, interest))
	}
	return nil
}

// monthsToRepay projects a fixed payment with no cascading.
func monthsToRepay(balance, annualRate, payment decimal.Decimal, limit int) (int, bool) {
	for m := 1; m <= limit; m++ {
		owed := balance.Add(accrue(balance, annualRate))
		balance = owed.Sub(decimal.Min(payment, owed))
		if isPaidOff(balance) {
			return m, true
		}
	}
	return limit, false
}

type debtProgress struct {
	interest decimal.Decimal
	paid     decimal.Decimal
	months   int
	paidOn   domain.Month
	done     bool
}

// simulation is the per-run state. It is never shared between runs.
type simulation struct {
	strategy Strategy
	fundings *FundingSchedule
	start    domain.Month
	budget   decimal.Decimal

	order    []string // input order of the debts that entered the run
	natural  []string // active debts, input order
	debts    map[string]domain.Debt
	balances map[string]decimal.Decimal
	minimums map[string]decimal.Decimal
	pool     decimal.Decimal
	tracker  *redistributionTracker
	progress map[string]*debtProgress
	timeline []domain.MonthSummary
}

func newSimulation(active []domain.Debt, budget decimal.Decimal, strategy Strategy, fundings *FundingSchedule, start domain.Month) *simulation {
	s := &simulation{
		strategy: strategy,
		fundings: fundings,
		start:    start,
		budget:   budget,
		debts:    make(map[string]domain.Debt, len(active)),
		balances: make(map[string]decimal.Decimal, len(active)),
		minimums: make(map[string]decimal.Decimal, len(active)),
		pool:     decimal.Zero,
		tracker:  newRedistributionTracker(strategy),
		progress: make(map[string]*debtProgress, len(active)),
	}
	for _, d := range active {
		s.order = append(s.order, d.ID)
		s.natural = append(s.natural, d.ID)
		s.debts[d.ID] = d
		s.balances[d.ID] = d.Balance
		s.minimums[d.ID] = d.MinimumPayment
		s.progress[d.ID] = &debtProgress{interest: decimal.Zero, paid: decimal.Zero}
	}
	return s
}

func (s *simulation) step(month int) error {
	date := s.start.AddMonths(month)
	priority := Rank(s.strategy, candidates(s.natural, s.balances, s.debts))

	starting := make(map[string]decimal.Decimal, len(s.natural))
	interest := make(map[string]decimal.Decimal, len(s.natural))
	owed := make(map[string]decimal.Decimal, len(s.natural))
	for _, id := range s.natural {
		bal := s.balances[id]
		i := accrue(bal, s.debts[id].AnnualRate)
		starting[id] = bal
		interest[id] = i
		owed[id] = bal.Add(i)
		s.progress[id].interest = s.progress[id].interest.Add(i)
	}

	funding := s.fundings.AmountFor(month)
	available := s.budget.Add(funding)
	alloc, err := allocate(s.natural, priority, owed, s.minimums, available, s.pool)
	if err != nil {
		return fmt.Errorf("month %d: %w", month, err)
	}
	for _, id := range s.natural {
		paid := alloc.byDebt[id].Total()
		s.balances[id] = owed[id].Sub(paid)
		s.progress[id].paid = s.progress[id].paid.Add(paid)
	}

	natural := s.natural
	remaining, paidOff, released := s.tracker.settle(month, date, s.natural, s.balances, s.debts)
	for _, id := range paidOff {
		p := s.progress[id]
		p.done = true
		p.months = month + 1
		p.paidOn = date
	}
	s.pool = s.pool.Add(released)
	s.natural = remaining

	summary := domain.MonthSummary{
		Month:          month,
		Date:           date,
		AvailableFunds: available,
		Funding:        funding,
		Allocated:      alloc.allocated,
		Discarded:      alloc.residual,
		Debts:          make([]domain.DebtMonth, 0, len(natural)),
	}
	for _, id := range natural {
		summary.Debts = append(summary.Debts, domain.DebtMonth{
			DebtID:          id,
			StartingBalance: starting[id],
			Interest:        interest[id],
			Allocation:      alloc.byDebt[id],
			EndingBalance:   s.balances[id],
		})
	}
	s.timeline = append(s.timeline, summary)
	return nil
}

func (s *simulation) collect(plan *domain.Plan, capDate time.Time) {
	plan.Timeline = s.timeline
	for _, id := range s.order {
		p := s.progress[id]
		r := domain.PayoffResult{
			DebtID:                id,
			TotalInterest:         p.interest,
			TotalPaid:             p.paid,
			RedistributionHistory: s.tracker.historyFor(id),
		}
		if p.done {
			r.Status = domain.StatusPaid
			r.Months = p.months
			r.PayoffDate = p.paidOn.Time()
		} else {
			r.Status = domain.StatusUnreachable
			r.Months = MaxMonths
			r.PayoffDate = capDate
			r.Reason = fmt.Sprintf("not repaid within %d months", MaxMonths)
		}
		plan.Results[id] = r
		plan.TotalInterest = plan.TotalInterest.Add(r.TotalInterest)
		plan.TotalPaid = plan.TotalPaid.Add(r.TotalPaid)
		if r.Months > plan.Months {
			plan.Months = r.Months
		}
	}
}

// amortizingOpenDebts lists the debts still open whose own minimum would
// have repaid them within MaxMonths.
func (s *simulation) amortizingOpenDebts() []string {
	var stuck []string
	for _, id := range s.natural {
		d := s.debts[id]
		if _, ok := monthsToRepay(d.Balance, d.AnnualRate, d.MinimumPayment, MaxMonths); ok {
			stuck = append(stuck, id)
		}
	}
	return stuck
}
