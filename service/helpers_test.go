package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"debt-planner/domain"
	"debt-planner/repository"
)

var fixedNow = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testOptions() Options {
	return Options{
		Logger: zap.NewNop(),
		Clock:  func() time.Time { return fixedNow },
	}
}

func scenarioDebts() []domain.Debt {
	return []domain.Debt{
		{ID: "D1", Name: "Card", Balance: dec("1000"), AnnualRate: dec("24"), MinimumPayment: dec("50")},
		{ID: "D2", Name: "Loan", Balance: dec("2000"), AnnualRate: dec("12"), MinimumPayment: dec("80")},
	}
}

// MockPlanRepository records saves and can be told to fail.
type MockPlanRepository struct {
	mu         sync.Mutex
	SaveCalls  int
	ForceError bool
	inner      *repository.PlanRepositoryMemory
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{inner: repository.NewPlanRepositoryMemory()}
}

func (m *MockPlanRepository) Save(
	ctx context.Context,
	req domain.PlanRequest,
	plan domain.Plan,
) (string, error) {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.ForceError {
		return "", errors.New("save error")
	}
	return m.inner.Save(ctx, req, plan)
}

func (m *MockPlanRepository) Get(ctx context.Context, id string) (repository.StoredPlan, error) {
	return m.inner.Get(ctx, id)
}
