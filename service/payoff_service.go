package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"debt-planner/config"
	"debt-planner/domain"
	"debt-planner/engine"
	"debt-planner/metrics"
	"debt-planner/repository"
)

type PayoffService struct {
	plans     repository.PlanRepository
	cache     repository.CacheRepository
	explainer *Explainer
	opts      Options
}

// NewPayoffService wires the payoff use cases. cache may be nil to disable
// response caching.
func NewPayoffService(
	plans repository.PlanRepository,
	cache repository.CacheRepository,
	explainer *Explainer,
	opts Options,
) *PayoffService {
	opts = opts.withDefaults()
	if explainer == nil {
		explainer = NewExplainer(config.ExplainerConfig{}, opts.Logger)
	}
	return &PayoffService{
		plans:     plans,
		cache:     cache,
		explainer: explainer,
		opts:      opts,
	}
}

// CalculatePlan simulates the requested strategy, stores the plan and
// attaches an explanation. Identical requests for the same start month are
// served from the cache.
func (s *PayoffService) CalculatePlan(
	ctx context.Context,
	req domain.PlanRequest,
) (domain.PlanResponse, error) {
	if err := validateDebts(req.Debts, s.opts.Limits); err != nil {
		return domain.PlanResponse{}, err
	}
	now := startTime(req.Start, s.opts.Clock)
	key := fingerprint("plan", req, now)

	var resp domain.PlanResponse
	if s.lookup(ctx, key, &resp) {
		resp.Cached = true
		return resp, nil
	}

	plan, err := s.simulate(engine.Input{
		Debts:    req.Debts,
		Budget:   req.Budget,
		Strategy: req.Strategy,
		Fundings: req.Fundings,
		Now:      now,
	})
	if err != nil {
		return domain.PlanResponse{}, err
	}
	if !req.IncludeTimeline {
		plan.Timeline = nil
	}

	resp = domain.PlanResponse{Plan: plan}
	// Persisting is not critical for the caller
	if id, err := s.plans.Save(ctx, req, plan); err != nil {
		s.opts.Logger.Warn("failed to save plan", zap.Error(err))
	} else {
		resp.ID = id
	}
	resp.Explanation = s.explainer.ExplainPlan(ctx, plan)

	s.store(ctx, key, resp)
	return resp, nil
}

// GetPlan loads a previously computed plan.
func (s *PayoffService) GetPlan(ctx context.Context, id string) (repository.StoredPlan, error) {
	return s.plans.Get(ctx, id)
}

// Compare runs avalanche, snowball, the custom order when one is given and a
// minimum-payments-only baseline, then picks the cheapest strategy.
func (s *PayoffService) Compare(
	ctx context.Context,
	req domain.PlanRequest,
) (domain.Comparison, error) {
	if err := validateDebts(req.Debts, s.opts.Limits); err != nil {
		return domain.Comparison{}, err
	}
	now := startTime(req.Start, s.opts.Clock)
	key := fingerprint("compare", req, now)

	var cached domain.Comparison
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	specs := []domain.StrategySpec{{Kind: domain.Avalanche}, {Kind: domain.Snowball}}
	if req.Strategy.Kind == domain.Custom {
		specs = append(specs, req.Strategy)
	}

	plans := make([]domain.Plan, len(specs))
	var baseline domain.Plan

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Limits.Workers)
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := s.simulate(engine.Input{
				Debts:    req.Debts,
				Budget:   req.Budget,
				Strategy: spec,
				Fundings: req.Fundings,
				Now:      now,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", spec.Kind, err)
			}
			plans[i] = plan
			return nil
		})
	}
	g.Go(func() error {
		plan, err := s.simulate(engine.Input{
			Debts:    req.Debts,
			Budget:   engine.MinimumTotal(req.Debts),
			Strategy: domain.StrategySpec{Kind: domain.Avalanche},
			Now:      now,
		})
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		baseline = plan
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Comparison{}, err
	}

	c := buildComparison(plans, baseline, req.IncludeTimeline)
	c.Explanation = s.explainer.ExplainComparison(ctx, c)

	s.store(ctx, key, c)
	return c, nil
}

func buildComparison(plans []domain.Plan, baseline domain.Plan, withTimeline bool) domain.Comparison {
	c := domain.Comparison{
		Outcomes: make([]domain.StrategyOutcome, 0, len(plans)),
		Baseline: outcomeOf(baseline),
		Plans:    make(map[domain.StrategyKind]domain.Plan, len(plans)),
	}

	best := -1
	for i, p := range plans {
		c.Outcomes = append(c.Outcomes, outcomeOf(p))
		if !withTimeline {
			p.Timeline = nil
		}
		c.Plans[p.Strategy] = p

		if p.InsufficientBudget {
			continue
		}
		if best < 0 || betterPlan(p, plans[best]) {
			best = i
		}
	}
	if best < 0 {
		c.Best = plans[0].Strategy
		c.InterestSaved = decimal.Zero
		return c
	}

	winner := plans[best]
	c.Best = winner.Strategy
	c.InterestSaved = decimal.Max(decimal.Zero, baseline.TotalInterest.Sub(winner.TotalInterest))
	c.MonthsSaved = max(0, baseline.Months-winner.Months)
	return c
}

// betterPlan prefers lower interest, then fewer months. Equal plans keep the
// earlier strategy.
func betterPlan(a, b domain.Plan) bool {
	if cmp := a.TotalInterest.Cmp(b.TotalInterest); cmp != 0 {
		return cmp < 0
	}
	return a.Months < b.Months
}

func outcomeOf(p domain.Plan) domain.StrategyOutcome {
	return domain.StrategyOutcome{
		Strategy:           p.Strategy,
		Budget:             p.Budget,
		TotalInterest:      p.TotalInterest,
		Months:             p.Months,
		InsufficientBudget: p.InsufficientBudget,
	}
}

func (s *PayoffService) simulate(in engine.Input) (domain.Plan, error) {
	return runSimulation(s.opts, in)
}

// runSimulation runs the engine and records metrics. A cap hit is logged as
// an error since valid input cannot produce one.
func runSimulation(opts Options, in engine.Input) (domain.Plan, error) {
	label := string(in.Strategy.Kind)
	if label == "" {
		label = string(domain.Avalanche)
	}

	started := time.Now()
	plan, err := engine.Simulate(in)
	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case plan.InsufficientBudget:
		outcome = metrics.OutcomeInsufficient
	}
	opts.Metrics.ObserveSimulation(label, outcome, time.Since(started))

	if errors.Is(err, engine.ErrUnreachablePayoff) {
		opts.Logger.Error("simulation hit the month cap",
			zap.String("strategy", label),
			zap.String("budget", in.Budget.String()),
			zap.Int("debts", len(in.Debts)),
			zap.Error(err))
	}
	return plan, err
}

// fingerprint hashes the canonical JSON of a request together with the start
// month the run resolves to.
func fingerprint(prefix string, req any, now time.Time) string {
	data, err := json.Marshal(struct {
		Start   domain.Month `json:"start"`
		Request any          `json:"request"`
	}{domain.MonthOf(now), req})
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64(data))
}

func (s *PayoffService) lookup(ctx context.Context, key string, dst any) bool {
	if s.cache == nil || key == "" {
		return false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		s.opts.Metrics.CacheMiss()
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.opts.Logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		s.opts.Metrics.CacheMiss()
		return false
	}
	s.opts.Metrics.CacheHit()
	return true
}

func (s *PayoffService) store(ctx context.Context, key string, v any) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.opts.Logger.Warn("failed to encode cache entry", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.opts.CacheTTL); err != nil {
		s.opts.Logger.Warn("failed to write cache", zap.String("key", key), zap.Error(err))
	}
}
