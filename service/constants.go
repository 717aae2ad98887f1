package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"debt-planner/metrics"
)

const (
	MaxDebtAmount       = 100_000_000.0 // 100 million
	MaxInterestRate     = 1000.0        // 1000% per year
	MaxDebtsPerRequest  = 50
	MinTermMonths       = 1
	MaxBudgetCandidates = 120 // budgets evaluated by one advice request
	DefaultWorkers      = 4
	DefaultCacheTTL     = 10 * time.Minute
)

// Limits bounds what a single request may ask for.
type Limits struct {
	MaxDebts            int
	MaxDebtAmount       decimal.Decimal
	MaxInterestRate     decimal.Decimal
	MaxBudgetCandidates int
	Workers             int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDebts:            MaxDebtsPerRequest,
		MaxDebtAmount:       decimal.NewFromFloat(MaxDebtAmount),
		MaxInterestRate:     decimal.NewFromFloat(MaxInterestRate),
		MaxBudgetCandidates: MaxBudgetCandidates,
		Workers:             DefaultWorkers,
	}
}

// Options carries the collaborators shared by the services. Zero fields are
// replaced with defaults; a nil Metrics disables instrumentation.
type Options struct {
	Limits   Limits
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Clock    func() time.Time
	CacheTTL time.Duration
}

func (o Options) withDefaults() Options {
	def := DefaultLimits()
	if o.Limits.MaxDebts <= 0 {
		o.Limits.MaxDebts = def.MaxDebts
	}
	if !o.Limits.MaxDebtAmount.IsPositive() {
		o.Limits.MaxDebtAmount = def.MaxDebtAmount
	}
	if !o.Limits.MaxInterestRate.IsPositive() {
		o.Limits.MaxInterestRate = def.MaxInterestRate
	}
	if o.Limits.MaxBudgetCandidates <= 0 {
		o.Limits.MaxBudgetCandidates = def.MaxBudgetCandidates
	}
	if o.Limits.Workers <= 0 {
		o.Limits.Workers = def.Workers
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	return o
}

// roundTo2Decimals rounds a score to 2 decimals.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
