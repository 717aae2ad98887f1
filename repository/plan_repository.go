package repository

import (
	"context"
	"errors"
	"time"

	"debt-planner/domain"
)

var ErrPlanNotFound = errors.New("plan not found")

// StoredPlan is a computed plan together with the request that produced it.
type StoredPlan struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Request   domain.PlanRequest `json:"request"`
	Plan      domain.Plan        `json:"plan"`
}

type PlanRepository interface {
	// Save assigns an id to the plan and returns it.
	Save(ctx context.Context, req domain.PlanRequest, plan domain.Plan) (string, error)
	Get(ctx context.Context, id string) (StoredPlan, error)
}
