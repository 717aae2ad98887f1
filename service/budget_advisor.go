package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"debt-planner/config"
	"debt-planner/domain"
	"debt-planner/engine"
)

const (
	PreferMinimizeInterest = "minimize_interest"
	PreferMinimizePayment  = "minimize_payment"
	PreferBalanced         = "balanced"
)

// BudgetAdvisor sweeps monthly budgets from the sum of minimum payments up
// to a ceiling and ranks them by the caller's preference.
type BudgetAdvisor struct {
	explainer *Explainer
	opts      Options
}

func NewBudgetAdvisor(explainer *Explainer, opts Options) *BudgetAdvisor {
	opts = opts.withDefaults()
	if explainer == nil {
		explainer = NewExplainer(config.ExplainerConfig{}, opts.Logger)
	}
	return &BudgetAdvisor{explainer: explainer, opts: opts}
}

type budgetRun struct {
	budget decimal.Decimal
	plan   domain.Plan
}

// Recommend evaluates every candidate budget and returns them best first.
func (a *BudgetAdvisor) Recommend(
	ctx context.Context,
	req domain.BudgetAdviceRequest,
) (domain.BudgetAdviceResult, error) {
	if err := validateDebts(req.Debts, a.opts.Limits); err != nil {
		return domain.BudgetAdviceResult{}, err
	}

	preference := req.Preference
	if preference == "" {
		preference = PreferBalanced
	}
	preferences := map[string]bool{
		PreferMinimizeInterest: true,
		PreferMinimizePayment:  true,
		PreferBalanced:         true,
	}
	if !preferences[preference] {
		return domain.BudgetAdviceResult{}, invalidf("unknown preference %q", req.Preference)
	}

	budgets, err := a.candidates(req)
	if err != nil {
		return domain.BudgetAdviceResult{}, err
	}

	now := startTime(req.Start, a.opts.Clock)
	runs := make([]budgetRun, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Limits.Workers)
	for i, budget := range budgets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := runSimulation(a.opts, engine.Input{
				Debts:    req.Debts,
				Budget:   budget,
				Strategy: req.Strategy,
				Fundings: req.Fundings,
				Now:      now,
			})
			if err != nil {
				return fmt.Errorf("budget %s: %w", budget, err)
			}
			runs[i] = budgetRun{budget: budget, plan: plan}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BudgetAdviceResult{}, err
	}

	recommendations := scoreRuns(runs, preference)
	// Candidates are generated in ascending budget order, so a stable sort
	// keeps the cheaper budget first on equal scores.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	top := recommendations[0]
	return domain.BudgetAdviceResult{
		RecommendedBudget: top.Budget,
		Recommendations:   recommendations,
		Explanation:       a.explainer.ExplainBudget(ctx, preference, top),
	}, nil
}

// candidates lists the budgets to evaluate: minimum, minimum+step, ... up to
// and including the ceiling when it falls on a step.
func (a *BudgetAdvisor) candidates(req domain.BudgetAdviceRequest) ([]decimal.Decimal, error) {
	minimum := engine.MinimumTotal(req.Debts)
	if !minimum.IsPositive() {
		return nil, invalidf("no debt requires a monthly payment")
	}

	ceiling := req.MaxBudget
	if !ceiling.IsPositive() {
		ceiling = minimum.Mul(decimal.NewFromInt(3))
	}
	if ceiling.LessThan(minimum) {
		return nil, invalidf("max budget %s is below the minimum payments of %s", ceiling, minimum)
	}

	step := req.Step
	if !step.IsPositive() {
		step = decimal.Max(decimal.NewFromInt(1), minimum.Div(decimal.NewFromInt(10)).Ceil())
	}

	count := ceiling.Sub(minimum).Div(step).Floor().IntPart() + 1
	if count > int64(a.opts.Limits.MaxBudgetCandidates) {
		return nil, invalidf("budget range needs %d candidates, the maximum is %d; use a larger step", count, a.opts.Limits.MaxBudgetCandidates)
	}

	budgets := make([]decimal.Decimal, 0, count)
	for i := int64(0); i < count; i++ {
		budgets = append(budgets, minimum.Add(step.Mul(decimal.NewFromInt(i))))
	}
	return budgets, nil
}

// scoreRuns normalizes interest, budget and months to 0-10 over the
// evaluated range and weights them by preference.
func scoreRuns(runs []budgetRun, preference string) []domain.BudgetRecommendation {
	minI, maxI := runs[0].plan.TotalInterest.InexactFloat64(), runs[0].plan.TotalInterest.InexactFloat64()
	minB, maxB := runs[0].budget.InexactFloat64(), runs[0].budget.InexactFloat64()
	minM, maxM := float64(runs[0].plan.Months), float64(runs[0].plan.Months)
	for _, r := range runs[1:] {
		i, b, m := r.plan.TotalInterest.InexactFloat64(), r.budget.InexactFloat64(), float64(r.plan.Months)
		minI, maxI = min(minI, i), max(maxI, i)
		minB, maxB = min(minB, b), max(maxB, b)
		minM, maxM = min(minM, m), max(maxM, m)
	}

	out := make([]domain.BudgetRecommendation, 0, len(runs))
	for _, r := range runs {
		interestScore := normalized(r.plan.TotalInterest.InexactFloat64(), minI, maxI)
		paymentScore := normalized(r.budget.InexactFloat64(), minB, maxB)
		monthsScore := normalized(float64(r.plan.Months), minM, maxM)

		var score float64
		switch preference {
		case PreferMinimizeInterest:
			score = 0.6*interestScore + 0.2*paymentScore + 0.2*monthsScore
		case PreferMinimizePayment:
			score = 0.2*interestScore + 0.6*paymentScore + 0.2*monthsScore
		default:
			score = 0.4*interestScore + 0.4*paymentScore + 0.2*monthsScore
		}

		out = append(out, domain.BudgetRecommendation{
			Budget:        r.budget,
			TotalInterest: r.plan.TotalInterest,
			Months:        r.plan.Months,
			Score:         roundTo2Decimals(score),
			Reason:        budgetReason(preference),
		})
	}
	return out
}

// normalized maps v to 10 at lo and 0 at hi.
func normalized(v, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 10
	}
	return 10.0 * (1.0 - (v-lo)/(hi-lo))
}

func budgetReason(preference string) string {
	switch preference {
	case PreferMinimizeInterest:
		return "Budget weighted towards the lowest total interest"
	case PreferMinimizePayment:
		return "Budget weighted towards the lowest monthly payment"
	default:
		return "Balance between monthly payment and total cost"
	}
}
