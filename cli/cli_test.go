package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"debt-planner/domain"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":         "$0.00",
		"12.5":      "$12.50",
		"999.999":   "$1,000.00",
		"1234567.8": "$1,234,567.80",
		"-2500":     "-$2,500.00",
		"100000":    "$100,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestFormatMonths(t *testing.T) {
	assert.Equal(t, "0m", FormatMonths(0))
	assert.Equal(t, "7m", FormatMonths(7))
	assert.Equal(t, "2y", FormatMonths(24))
	assert.Equal(t, "1y 6m", FormatMonths(18))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "DEBTS",
		Headers: []string{"Debt", "Balance"},
		Rows:    [][]string{{"card", "$1,000.00"}, {"---"}, {"Total", "$1,000.00"}},
	})
	assert.Contains(t, out, "DEBTS")
	assert.Contains(t, out, "card")
	assert.Contains(t, out, "$1,000.00")
	assert.Equal(t, 8, strings.Count(out, "\n"), out)

	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderPlan(t *testing.T) {
	plan := domain.Plan{
		Strategy:      domain.Avalanche,
		Budget:        decimal.NewFromInt(200),
		Months:        20,
		TotalInterest: decimal.RequireFromString("310.42"),
		TotalPaid:     decimal.RequireFromString("3310.42"),
		Results: map[string]domain.PayoffResult{
			"D2": {DebtID: "D2", Status: domain.StatusPaid, Months: 20, PayoffDate: time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC)},
			"D1": {DebtID: "D1", Status: domain.StatusPaid, Months: 9, PayoffDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		},
		Rejected: []domain.DebtRejection{{DebtID: "stuck", Reason: "minimum too low"}},
	}

	out := RenderPlan(plan)
	assert.Contains(t, out, "AVALANCHE")
	assert.Contains(t, out, "$310.42")
	assert.Contains(t, out, "Sep 2026")
	assert.Less(t, strings.Index(out, "D1"), strings.Index(out, "D2"), "payoff order")
	assert.Contains(t, out, "stuck skipped")
}

func TestRenderSchedule_Truncates(t *testing.T) {
	res := domain.ScheduleResult{MonthlyPayment: decimal.NewFromInt(10), Months: 30, PaidOff: true}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		res.Entries = append(res.Entries, domain.AmortizationEntry{Month: i, Date: start.AddDate(0, i, 0)})
	}

	out := RenderSchedule(res, 6)
	assert.Contains(t, out, "Jan 2026")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "Jun 2028")
	assert.NotContains(t, out, "Jun 2027")
}
