package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"debt-planner/domain"
)

// Candidate is the view of an active debt a Strategy ranks on. Balance is the
// current simulated balance, not the caller's original figure.
type Candidate struct {
	ID         string
	Balance    decimal.Decimal
	AnnualRate decimal.Decimal
}

// Strategy is a total order over candidates. Less reports whether a should
// receive surplus before b.
type Strategy interface {
	Kind() domain.StrategyKind
	Less(a, b Candidate) bool
}

func NewStrategy(spec domain.StrategySpec) (Strategy, error) {
	switch spec.Kind {
	case domain.Avalanche, "":
		return avalanche{}, nil
	case domain.Snowball:
		return snowball{}, nil
	case domain.Custom:
		if len(spec.Order) == 0 {
			return nil, fmt.Errorf("%w: custom strategy needs an order", ErrInvalidStrategy)
		}
		rank := make(map[string]int, len(spec.Order))
		for i, id := range spec.Order {
			if _, dup := rank[id]; dup {
				return nil, fmt.Errorf("%w: debt %q listed twice in custom order", ErrInvalidStrategy, id)
			}
			rank[id] = i
		}
		return customOrder{rank: rank}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidStrategy, spec.Kind)
	}
}

type avalanche struct{}

func (avalanche) Kind() domain.StrategyKind { return domain.Avalanche }

func (avalanche) Less(a, b Candidate) bool {
	if c := a.AnnualRate.Cmp(b.AnnualRate); c != 0 {
		return c > 0
	}
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

type snowball struct{}

func (snowball) Kind() domain.StrategyKind { return domain.Snowball }

func (snowball) Less(a, b Candidate) bool {
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c < 0
	}
	if c := a.AnnualRate.Cmp(b.AnnualRate); c != 0 {
		return c > 0
	}
	return a.ID < b.ID
}

// customOrder ranks listed debts first in list order; unlisted debts follow
// in id order.
type customOrder struct {
	rank map[string]int
}

func (customOrder) Kind() domain.StrategyKind { return domain.Custom }

func (s customOrder) Less(a, b Candidate) bool {
	ra, okA := s.rank[a.ID]
	rb, okB := s.rank[b.ID]
	switch {
	case okA && okB:
		return ra < rb
	case okA != okB:
		return okA
	default:
		return a.ID < b.ID
	}
}

func (s customOrder) unknownIDs(known map[string]bool) []string {
	var out []string
	for id := range s.rank {
		if !known[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Rank returns the candidates' ids from highest to lowest priority.
func Rank(s Strategy, candidates []Candidate) []string {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return s.Less(sorted[i], sorted[j])
	})
	ids := make([]string, len(sorted))
	for i, c := range sorted {
		ids[i] = c.ID
	}
	return ids
}
