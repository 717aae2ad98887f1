package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
)

func samplePlan() (domain.PlanRequest, domain.Plan) {
	req := domain.PlanRequest{
		Debts: []domain.Debt{{
			ID:             "card",
			Balance:        decimal.RequireFromString("1000"),
			AnnualRate:     decimal.RequireFromString("24"),
			MinimumPayment: decimal.RequireFromString("50"),
		}},
		Budget:   decimal.RequireFromString("200"),
		Strategy: domain.StrategySpec{Kind: domain.Avalanche},
	}
	plan := domain.Plan{
		Strategy:      domain.Avalanche,
		StartDate:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Budget:        decimal.RequireFromString("200"),
		Months:        6,
		TotalInterest: decimal.RequireFromString("61.27"),
		Results: map[string]domain.PayoffResult{
			"card": {
				DebtID:                "card",
				Status:                domain.StatusPaid,
				Months:                6,
				TotalInterest:         decimal.RequireFromString("61.27"),
				PayoffDate:            time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
				RedistributionHistory: []domain.Redistribution{},
			},
		},
		Rejected: []domain.DebtRejection{},
	}
	return req, plan
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok := c.Get(ctx, "plan:1")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "plan:1", "payload", 0))
	got, ok := c.Get(ctx, "plan:1")
	assert.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_EvictKeepsFreshEntry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "old", time.Minute))
	now = now.Add(2 * time.Minute)

	// A Set lands between Get's expiry check and the eviction.
	require.NoError(t, c.Set(ctx, "k", "new", time.Minute))
	c.evict("k")

	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	c := NewRedisCache(RedisOptions{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer c.Close()

	ctx := context.Background()
	assert.Error(t, c.Ping(ctx))
	_, ok := c.Get(ctx, "plan:1")
	assert.False(t, ok)
}

func TestPlanRepositoryMemory(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepositoryMemory()
	req, plan := samplePlan()

	id, err := repo.Save(ctx, req, plan)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stored, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, 6, stored.Plan.Months)

	_, err = repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSQLPlanStore_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLPlanStore("sqlite", filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	defer store.Close()

	req, plan := samplePlan()
	id, err := store.Save(ctx, req, plan)
	require.NoError(t, err)

	stored, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, domain.Avalanche, stored.Plan.Strategy)
	assert.Equal(t, 6, stored.Plan.Months)
	assert.True(t, plan.TotalInterest.Equal(stored.Plan.TotalInterest))
	assert.True(t, plan.StartDate.Equal(stored.Plan.StartDate))
	require.Contains(t, stored.Plan.Results, "card")
	assert.Equal(t, domain.StatusPaid, stored.Plan.Results["card"].Status)
	require.Len(t, stored.Request.Debts, 1)
	assert.True(t, req.Budget.Equal(stored.Request.Budget))
	assert.False(t, stored.CreatedAt.IsZero())

	_, err = store.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSQLPlanStore_UnknownDriver(t *testing.T) {
	_, err := OpenSQLPlanStore("mysql", "x")
	assert.Error(t, err)
}

func TestSQLPlanStore_Rebind(t *testing.T) {
	pg := &SQLPlanStore{driver: "postgres"}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &SQLPlanStore{driver: "sqlite"}
	assert.Equal(t, "WHERE x = ?", lite.rebind("WHERE x = ?"))
}
