package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
	"debt-planner/engine"
	"debt-planner/repository"
)

func newPayoffService(repo repository.PlanRepository, cache repository.CacheRepository) *PayoffService {
	return NewPayoffService(repo, cache, nil, testOptions())
}

func TestCalculatePlan_OK(t *testing.T) {
	repo := NewMockPlanRepository()
	svc := newPayoffService(repo, nil)

	resp, err := svc.CalculatePlan(context.Background(), domain.PlanRequest{
		Debts:  scenarioDebts(),
		Budget: dec("200"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.False(t, resp.Cached)
	assert.Equal(t, domain.Avalanche, resp.Plan.Strategy)
	assert.Equal(t, fixedNow.Year(), resp.Plan.StartDate.Year())
	assert.Nil(t, resp.Plan.Timeline)
	assert.Len(t, resp.Plan.Results, 2)
	assert.Contains(t, resp.Explanation, "avalanche")
	assert.Equal(t, 1, repo.SaveCalls)

	stored, err := svc.GetPlan(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Plan.Months, stored.Plan.Months)
}

func TestCalculatePlan_SaveErrorIsNotFatal(t *testing.T) {
	repo := NewMockPlanRepository()
	repo.ForceError = true
	svc := newPayoffService(repo, nil)

	resp, err := svc.CalculatePlan(context.Background(), domain.PlanRequest{
		Debts:  scenarioDebts(),
		Budget: dec("200"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
	assert.Positive(t, resp.Plan.Months)
}

func TestCalculatePlan_ServedFromCache(t *testing.T) {
	repo := NewMockPlanRepository()
	cache := repository.NewMemoryCache()
	svc := newPayoffService(repo, cache)
	req := domain.PlanRequest{Debts: scenarioDebts(), Budget: dec("200")}

	first, err := svc.CalculatePlan(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.CalculatePlan(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Plan.Months, second.Plan.Months)
	assert.True(t, first.Plan.TotalInterest.Equal(second.Plan.TotalInterest))
	assert.Equal(t, 1, repo.SaveCalls)
	assert.Equal(t, 1, cache.Len())

	// A different budget is a different entry.
	req.Budget = dec("250")
	third, err := svc.CalculatePlan(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, cache.Len())
}

func TestCalculatePlan_TimelineAndStart(t *testing.T) {
	svc := newPayoffService(NewMockPlanRepository(), nil)
	start := domain.Month{Year: 2027, Month: 3}

	resp, err := svc.CalculatePlan(context.Background(), domain.PlanRequest{
		Debts:           scenarioDebts(),
		Budget:          dec("200"),
		Start:           &start,
		IncludeTimeline: true,
	})
	require.NoError(t, err)
	assert.Equal(t, start.Time(), resp.Plan.StartDate)
	require.Len(t, resp.Plan.Timeline, resp.Plan.Months)
	assert.Equal(t, start, resp.Plan.Timeline[0].Date)
}

func TestCalculatePlan_Validation(t *testing.T) {
	svc := NewPayoffService(NewMockPlanRepository(), nil, nil, Options{
		Limits: Limits{MaxDebts: 2},
		Clock:  testOptions().Clock,
	})
	tooMany := append(scenarioDebts(), domain.Debt{ID: "D3", Balance: dec("10"), AnnualRate: dec("1"), MinimumPayment: dec("5")})
	dup := scenarioDebts()
	dup[1].ID = "D1"
	steep := scenarioDebts()
	steep[0].AnnualRate = dec("1500")

	tests := []struct {
		name string
		req  domain.PlanRequest
		want error
	}{
		{"no debts", domain.PlanRequest{Budget: dec("100")}, ErrInvalidRequest},
		{"too many debts", domain.PlanRequest{Debts: tooMany, Budget: dec("500")}, ErrInvalidRequest},
		{"duplicate ids", domain.PlanRequest{Debts: dup, Budget: dec("500")}, ErrInvalidRequest},
		{"rate above limit", domain.PlanRequest{Debts: steep, Budget: dec("500")}, ErrInvalidRequest},
		{"negative budget", domain.PlanRequest{Debts: scenarioDebts(), Budget: dec("-1")}, engine.ErrInvalidBudget},
		{"unknown strategy", domain.PlanRequest{Debts: scenarioDebts(), Budget: dec("200"), Strategy: domain.StrategySpec{Kind: "fastest"}}, engine.ErrInvalidStrategy},
		{"custom names unknown debt", domain.PlanRequest{Debts: scenarioDebts(), Budget: dec("200"), Strategy: domain.StrategySpec{Kind: domain.Custom, Order: []string{"D9"}}}, engine.ErrInvalidStrategy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CalculatePlan(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculatePlan_InsufficientBudgetIsNotAnError(t *testing.T) {
	svc := newPayoffService(NewMockPlanRepository(), nil)

	resp, err := svc.CalculatePlan(context.Background(), domain.PlanRequest{
		Debts:  scenarioDebts(),
		Budget: dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Plan.InsufficientBudget)
	assert.Contains(t, resp.Explanation, "does not cover")
}

func TestCompare(t *testing.T) {
	svc := newPayoffService(NewMockPlanRepository(), repository.NewMemoryCache())

	c, err := svc.Compare(context.Background(), domain.PlanRequest{
		Debts:  scenarioDebts(),
		Budget: dec("200"),
	})
	require.NoError(t, err)

	require.Len(t, c.Outcomes, 2)
	assert.Equal(t, domain.Avalanche, c.Outcomes[0].Strategy)
	assert.Equal(t, domain.Snowball, c.Outcomes[1].Strategy)
	// Both strategies target D1 first here, so the tie goes to avalanche.
	assert.Equal(t, domain.Avalanche, c.Best)

	assert.True(t, c.Baseline.Budget.Equal(dec("130")))
	assert.True(t, c.InterestSaved.IsPositive())
	assert.Positive(t, c.MonthsSaved)
	assert.True(t, c.Baseline.TotalInterest.Sub(c.Plans[domain.Avalanche].TotalInterest).Equal(c.InterestSaved))
	assert.Nil(t, c.Plans[domain.Avalanche].Timeline)
	assert.NotEmpty(t, c.Explanation)
}

func TestCompare_WithCustomOrder(t *testing.T) {
	svc := newPayoffService(NewMockPlanRepository(), nil)

	c, err := svc.Compare(context.Background(), domain.PlanRequest{
		Debts:    scenarioDebts(),
		Budget:   dec("200"),
		Strategy: domain.StrategySpec{Kind: domain.Custom, Order: []string{"D2"}},
	})
	require.NoError(t, err)
	require.Len(t, c.Outcomes, 3)
	assert.Contains(t, c.Plans, domain.Custom)

	// Paying the 12% loan first cannot beat paying the 24% card first.
	custom := c.Plans[domain.Custom]
	assert.True(t, c.Plans[domain.Avalanche].TotalInterest.LessThanOrEqual(custom.TotalInterest))
	assert.NotEqual(t, domain.Custom, c.Best)
}

func TestCompare_InsufficientBudget(t *testing.T) {
	svc := newPayoffService(NewMockPlanRepository(), nil)

	c, err := svc.Compare(context.Background(), domain.PlanRequest{
		Debts:  scenarioDebts(),
		Budget: dec("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Avalanche, c.Best)
	assert.True(t, c.InterestSaved.IsZero())
	assert.Zero(t, c.MonthsSaved)
	assert.False(t, c.Baseline.InsufficientBudget)
}

func TestFingerprint(t *testing.T) {
	req := domain.PlanRequest{Debts: scenarioDebts(), Budget: dec("200")}
	a := fingerprint("plan", req, fixedNow)
	b := fingerprint("plan", req, fixedNow.AddDate(0, 0, 3))
	c := fingerprint("plan", req, fixedNow.AddDate(0, 1, 0))

	assert.Equal(t, a, b, "same start month")
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^plan:[0-9a-f]{16}$`, a)
}
