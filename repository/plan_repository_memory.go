package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"debt-planner/domain"
)

// PlanRepositoryMemory is an in-memory implementation of PlanRepository.
type PlanRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]StoredPlan
}

// NewPlanRepositoryMemory creates a new in-memory plan repository.
func NewPlanRepositoryMemory() *PlanRepositoryMemory {
	return &PlanRepositoryMemory{
		data: make(map[string]StoredPlan),
	}
}

// Save stores the plan in memory.
func (r *PlanRepositoryMemory) Save(
	_ context.Context,
	req domain.PlanRequest,
	plan domain.Plan,
) (string, error) {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[id] = StoredPlan{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Plan:      plan,
	}
	return id, nil
}

func (r *PlanRepositoryMemory) Get(_ context.Context, id string) (StoredPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.data[id]
	if !ok {
		return StoredPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return stored, nil
}
