package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is one obligation fed into a payoff simulation. AnnualRate is a
// percentage: 24 means 24 % per year.
type Debt struct {
	ID             string          `json:"id" yaml:"id" toml:"id"`
	Name           string          `json:"name,omitempty" yaml:"name" toml:"name"`
	Balance        decimal.Decimal `json:"balance" yaml:"balance" toml:"balance"`
	AnnualRate     decimal.Decimal `json:"annual_rate" yaml:"annual_rate" toml:"annual_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment" yaml:"minimum_payment" toml:"minimum_payment"`
}

type StrategyKind string

const (
	Avalanche StrategyKind = "avalanche" // highest rate first
	Snowball  StrategyKind = "snowball"  // smallest balance first
	Custom    StrategyKind = "custom"    // caller-supplied order
)

// StrategySpec selects a prioritization strategy. Order is only read for
// Custom and lists debt ids from highest to lowest priority.
type StrategySpec struct {
	Kind  StrategyKind `json:"kind" yaml:"kind" toml:"kind"`
	Order []string     `json:"order,omitempty" yaml:"order" toml:"order"`
}

// OneTimeFunding is a lump sum applied once, in its effective month.
type OneTimeFunding struct {
	Amount         decimal.Decimal `json:"amount" yaml:"amount" toml:"amount"`
	EffectiveMonth Month           `json:"effective_month" yaml:"effective_month" toml:"effective_month"`
	Note           string          `json:"note,omitempty" yaml:"note" toml:"note"`
}

// Allocation is what one debt received in one month.
type Allocation struct {
	Base          decimal.Decimal `json:"base"`
	Extra         decimal.Decimal `json:"extra"`
	Redistributed decimal.Decimal `json:"redistributed"`
}

func (a Allocation) Total() decimal.Decimal {
	return a.Base.Add(a.Extra).Add(a.Redistributed)
}

type PayoffStatus string

const (
	StatusPaid        PayoffStatus = "paid"
	StatusUnreachable PayoffStatus = "unreachable"
	StatusInvalid     PayoffStatus = "invalid"
)

// Redistribution records a paid-off debt's minimum payment being handed to
// the debt that had top priority when it was released. Month is the first
// simulated month in which the released payment is available.
type Redistribution struct {
	FromDebtID string          `json:"from_debt_id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Date       Month           `json:"date"`
}

type PayoffResult struct {
	DebtID                string           `json:"debt_id"`
	Status                PayoffStatus     `json:"status"`
	Months                int              `json:"months"`
	TotalInterest         decimal.Decimal  `json:"total_interest"`
	TotalPaid             decimal.Decimal  `json:"total_paid"`
	PayoffDate            time.Time        `json:"payoff_date"`
	RedistributionHistory []Redistribution `json:"redistribution_history"`
	Reason                string           `json:"reason,omitempty"`
}

type DebtRejection struct {
	DebtID string `json:"debt_id"`
	Reason string `json:"reason"`
}

// DebtMonth is one debt's line in a month of the timeline.
type DebtMonth struct {
	DebtID          string          `json:"debt_id"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Interest        decimal.Decimal `json:"interest"`
	Allocation      Allocation      `json:"allocation"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
}

type MonthSummary struct {
	Month          int             `json:"month"`
	Date           Month           `json:"date"`
	AvailableFunds decimal.Decimal `json:"available_funds"`
	Funding        decimal.Decimal `json:"funding"`
	Allocated      decimal.Decimal `json:"allocated"`
	Discarded      decimal.Decimal `json:"discarded"`
	Debts          []DebtMonth     `json:"debts"`
}

// Plan is the full outcome of one simulation run.
type Plan struct {
	Strategy           StrategyKind            `json:"strategy"`
	StartDate          time.Time               `json:"start_date"`
	Budget             decimal.Decimal         `json:"budget"`
	RequiredMinimum    decimal.Decimal         `json:"required_minimum"`
	InsufficientBudget bool                    `json:"insufficient_budget"`
	Months             int                     `json:"months"`
	TotalInterest      decimal.Decimal         `json:"total_interest"`
	TotalPaid          decimal.Decimal         `json:"total_paid"`
	Results            map[string]PayoffResult `json:"results"`
	Rejected           []DebtRejection         `json:"rejected"`
	Timeline           []MonthSummary          `json:"timeline,omitempty"`
}
