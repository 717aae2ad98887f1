package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AmortizationEntry struct {
	Month           int             `json:"month"`
	Date            time.Time       `json:"date"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Payment         decimal.Decimal `json:"payment"`
	Principal       decimal.Decimal `json:"principal"`
	Interest        decimal.Decimal `json:"interest"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
}

// ScheduleRequest describes a single-debt what-if. Either MonthlyPayment or
// TermMonths must be set; a term derives the fixed annuity payment.
type ScheduleRequest struct {
	Balance        decimal.Decimal `json:"balance"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TermMonths     int             `json:"term_months,omitempty"`
	Start          *Month          `json:"start,omitempty"`
}

type ScheduleResult struct {
	MonthlyPayment decimal.Decimal     `json:"monthly_payment"`
	TotalInterest  decimal.Decimal     `json:"total_interest"`
	TotalPaid      decimal.Decimal     `json:"total_paid"`
	Months         int                 `json:"months"`
	PaidOff        bool                `json:"paid_off"`
	Entries        []AmortizationEntry `json:"entries"`
}
