package domain

import "github.com/shopspring/decimal"

type BudgetAdviceRequest struct {
	Debts      []Debt           `json:"debts" yaml:"debts" toml:"debts"`
	Strategy   StrategySpec     `json:"strategy" yaml:"strategy" toml:"strategy"`
	Fundings   []OneTimeFunding `json:"fundings,omitempty" yaml:"fundings" toml:"fundings"`
	Start      *Month           `json:"start,omitempty" yaml:"start" toml:"start"`
	MaxBudget  decimal.Decimal  `json:"max_budget" yaml:"max_budget" toml:"max_budget"`
	Step       decimal.Decimal  `json:"step" yaml:"step" toml:"step"`
	Preference string           `json:"preference" yaml:"preference" toml:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type BudgetRecommendation struct {
	Budget        decimal.Decimal `json:"budget"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Months        int             `json:"months"`
	Score         float64         `json:"score"`
	Reason        string          `json:"reason"`
}

type BudgetAdviceResult struct {
	RecommendedBudget decimal.Decimal        `json:"recommended_budget"`
	Recommendations   []BudgetRecommendation `json:"recommendations"`
	Explanation       string                 `json:"explanation,omitempty"`
}
