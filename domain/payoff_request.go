package domain

import "github.com/shopspring/decimal"

type PlanRequest struct {
	Debts           []Debt           `json:"debts" yaml:"debts" toml:"debts"`
	Budget          decimal.Decimal  `json:"budget" yaml:"budget" toml:"budget"`
	Strategy        StrategySpec     `json:"strategy" yaml:"strategy" toml:"strategy"`
	Fundings        []OneTimeFunding `json:"fundings,omitempty" yaml:"fundings" toml:"fundings"`
	Start           *Month           `json:"start,omitempty" yaml:"start" toml:"start"`
	IncludeTimeline bool             `json:"include_timeline,omitempty" yaml:"include_timeline" toml:"include_timeline"`
}

type PlanResponse struct {
	ID          string `json:"id,omitempty"`
	Plan        Plan   `json:"plan"`
	Explanation string `json:"explanation,omitempty"`
	Cached      bool   `json:"cached"`
}

// StrategyOutcome condenses a plan for side-by-side comparison.
type StrategyOutcome struct {
	Strategy           StrategyKind    `json:"strategy"`
	Budget             decimal.Decimal `json:"budget"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	Months             int             `json:"months"`
	InsufficientBudget bool            `json:"insufficient_budget"`
}

type Comparison struct {
	Outcomes      []StrategyOutcome     `json:"outcomes"`
	Baseline      StrategyOutcome       `json:"baseline"`
	Best          StrategyKind          `json:"best"`
	InterestSaved decimal.Decimal       `json:"interest_saved"`
	MonthsSaved   int                   `json:"months_saved"`
	Plans         map[StrategyKind]Plan `json:"plans"`
	Explanation   string                `json:"explanation,omitempty"`
}
